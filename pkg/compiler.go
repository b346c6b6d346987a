package cog

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
)

type CompilerOption func(c *Compiler)

// WithLogger sets the logger that receives per-stage debug records.
func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithParserOptions(opts ...Option) CompilerOption {
	return func(c *Compiler) {
		c.parserOpts = append(c.parserOpts, opts...)
	}
}

// Compiler runs the lex, parse, check and codegen stages over one input at a
// time. A Compiler holds no per-input state and may be shared between
// goroutines.
type Compiler struct {
	logger     *slog.Logger
	parserOpts []Option
}

func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Result holds the output of every stage that ran. Module is nil when only
// the front end was run.
type Result struct {
	Filename string
	Tokens   []Token
	AST      []Expr
	Module   *ir.Module
}

func (c *Compiler) Compile(filename string) (*Result, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "could not read source")
	}

	return c.CompileSource(filename, string(src))
}

func (c *Compiler) CompileFromReader(name string, reader io.Reader) (*Result, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", name)
	}

	return c.CompileSource(name, string(src))
}

// CompileSource runs every stage over src and returns the generated module.
func (c *Compiler) CompileSource(name, src string) (*Result, error) {
	res, err := c.Analyze(name, src)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	mod, err := NewLLVMGenerator(res.AST).Do()
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	mod.SourceFilename = name
	res.Module = mod

	c.logger.Debug("generated module",
		"file", name,
		"funcs", len(mod.Funcs),
		"globals", len(mod.Globals),
		"elapsed", time.Since(start))

	return res, nil
}

// Analyze runs the front end: lexing, parsing and the structural check.
func (c *Compiler) Analyze(name, src string) (*Result, error) {
	res := &Result{
		Filename: name,
	}

	start := time.Now()
	tokens, err := Lex(src)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	res.Tokens = tokens

	c.logger.Debug("lexed source",
		"file", name,
		"bytes", len(src),
		"tokens", len(tokens),
		"elapsed", time.Since(start))

	start = time.Now()
	ast, err := NewParserFromTokens(src, tokens, c.parserOpts...).Parse()
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	res.AST = ast

	c.logger.Debug("parsed tokens",
		"file", name,
		"statements", len(ast),
		"nodes", CountNodes(ast),
		"elapsed", time.Since(start))

	if errs := Check(ast); len(errs) != 0 {
		c.logger.Debug("check failed", "file", name, "errors", len(errs))
		return nil, errors.Wrap(&CheckFailedError{Errors: errs}, name)
	}

	return res, nil
}
