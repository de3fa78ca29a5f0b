package datamask

// Warning describes a non-fatal problem met while masking. Masking continues past it.
type Warning struct {
	// Path is the path expression the warning is about, empty for whole-value masking.
	Path string
	// Message is the human readable description.
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// WarningHandler receives warnings produced by Erase.
type WarningHandler func(Warning)
