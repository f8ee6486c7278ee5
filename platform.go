package minic

// Platform is the set of host-provided callbacks the core calls out
// to for all I/O. Inside the core only the cursor calls it (GetLine,
// for interactive line fetch); the lexer, tables, value model, and
// api.go never touch it directly.
type Platform interface {
	Putc(ch byte)
	GetCharacter() (byte, bool)
	GetLine(prompt string) ([]byte, bool)
	Exit(code int)
	ReadFile(path string) ([]byte, bool)
}

// NullPlatform is a Platform that performs no I/O; useful for
// embeddings that only call Call() on predefined functions and never
// need interactive input, console output, or #include resolution.
type NullPlatform struct{}

func (NullPlatform) Putc(byte)                          {}
func (NullPlatform) GetCharacter() (byte, bool)          { return 0, false }
func (NullPlatform) GetLine(string) ([]byte, bool)       { return nil, false }
func (NullPlatform) Exit(int)                            {}
func (NullPlatform) ReadFile(string) ([]byte, bool)      { return nil, false }
