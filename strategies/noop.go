package strategies

// Noop never trades; its result is the untouched starting cash.
type Noop struct{}

func (Noop) Name() string              { return KindNoop }
func (Noop) Trade(Market) error        { return nil }
func (Noop) Labels() map[string]string { return map[string]string{"kind": KindNoop} }
