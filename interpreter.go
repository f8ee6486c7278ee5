package minic

// Interpreter is the single root record every table, arena, and
// registry hangs off. Nothing here is module-global: instances must be
// creatable and destroyable independently of each other.
type Interpreter struct {
	Config *Config
	Log    *Logger

	Arena         *Arena
	Interner      *Interner
	Types         *TypeRegistry
	ReservedWords *Table

	Globals        *Table
	StringLiterals *Table

	Platform Platform

	topFrame *stackFrame
}

// New constructs an interpreter with the given configuration. cfg may
// be nil, in which case NewConfig's defaults are used.
func New(cfg *Config, platform Platform) (*Interpreter, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if platform == nil {
		platform = NullPlatform{}
	}
	arena, err := NewArena(cfg.GetInt("arena.heap_size")+cfg.GetInt("arena.stack_size"), cfg.GetBool("arena.use_mmap"))
	if err != nil {
		return nil, err
	}
	in := NewInterner(arena)
	interp := &Interpreter{
		Config:         cfg,
		Log:            loggerFromConfig(cfg),
		Arena:          arena,
		Interner:       in,
		Types:          NewTypeRegistry(in),
		ReservedWords:  newReservedWordTable(in),
		Globals:        NewTable(),
		StringLiterals: NewTable(),
		Platform:       platform,
	}
	return interp, nil
}

// Cleanup releases the interpreter's backing arena, the other half of
// the host-facing init()/cleanup() lifecycle pair. The Interpreter
// value itself is ordinary garbage once this returns.
func (interp *Interpreter) Cleanup() error {
	return interp.Arena.Close()
}

// newCursorFor builds a Cursor over an already-lexed buffer, ready to
// drive an external evaluator.
func (interp *Interpreter) newCursorFor(fileName string, buf []byte, debugMode bool) *Cursor {
	c := NewCursor(interp, fileName, buf, debugMode)
	c.scopeID = 0
	return c
}

// Lex tokenises src under fileName and returns the encoded stream
// terminated by EOF.
func (interp *Interpreter) Lex(fileName string, src []byte) []byte {
	lx := NewLexer(interp.Interner, interp.ReservedWords, fileName, src, 1)
	if interp.Config.GetBool("debug.lexer") {
		lx.log = interp.Log
	}
	return lx.Lex()
}
