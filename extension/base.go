package extension

// Base is embedded by extensions whose only identifying state is their
// registered name.
type Base struct {
	ExtensionName string `json:"extensionName"`
}

// Name implements Extension for Base.
func (b Base) Name() string { return b.ExtensionName }
