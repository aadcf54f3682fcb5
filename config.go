package lineedit

import "time"

// WidthMode selects which width-measurement strategy the Prompt Model and
// Cursor Math components use, per spec.md §4.2's explicit allowance for a
// declared, documented choice.
type WidthMode int

const (
	// WidthModeGrapheme measures display width per East-Asian-Width-aware
	// grapheme cluster (github.com/rivo/uniseg). This is the default and
	// handles combining marks, ZWJ emoji sequences, and CJK correctly.
	WidthModeGrapheme WidthMode = iota
	// WidthModeDeclaredAmbiguous measures width per-rune via
	// github.com/unilibs/uniwidth with East Asian "ambiguous" characters
	// declared narrow. Faster, and matches terminals configured for a
	// narrow ambiguous-width locale.
	WidthModeDeclaredAmbiguous
	// WidthModeDeclaredWide is WidthModeDeclaredAmbiguous with ambiguous
	// characters declared wide, for CJK locales.
	WidthModeDeclaredWide
)

// Config holds construction-time options for an Editor, per spec.md §6.
type Config struct {
	// MaxHistorySize bounds the History Store. Default 1000, min 10, max 50000.
	MaxHistorySize int
	// MaxUndoActions bounds the per-line undo ring. Default 100.
	MaxUndoActions int
	// EnableMultiline turns on the continuation-checker hook (SPEC_FULL.md §4).
	EnableMultiline bool
	// EnableSyntaxHighlighting gates whether the Display Engine consults a
	// registered style hook when rendering.
	EnableSyntaxHighlighting bool
	// EnableAutoCompletion gates whether Tab triggers the completion hook.
	EnableAutoCompletion bool
	// EnableHistory gates whether completed lines are pushed to the History
	// Store and whether Up/Down navigate it.
	EnableHistory bool
	// EnableUndo gates the undo ring (SPEC_FULL.md §4).
	EnableUndo bool
	// NoHistoryDuplicates mirrors History Store's no_duplicates mode.
	NoHistoryDuplicates bool
	// EscapeTimeout bounds how long the Key Decoder waits for continuation
	// bytes of an escape sequence before resolving a bare Escape. Default
	// 100ms.
	EscapeTimeout time.Duration
	// WideCharWidth selects the width-measurement strategy (see WidthMode).
	WideCharWidth WidthMode
	// FastHistoryReplace opts into the alternate, more fragile but cheaper
	// replace_all algorithm spec.md §4.5 permits, instead of the default
	// destructive-backspace loop.
	FastHistoryReplace bool
}

// DefaultConfig returns the Config spec.md §6 describes as the default.
func DefaultConfig() Config {
	return Config{
		MaxHistorySize:           1000,
		MaxUndoActions:           100,
		EnableMultiline:          false,
		EnableSyntaxHighlighting: false,
		EnableAutoCompletion:     false,
		EnableHistory:            true,
		EnableUndo:               true,
		NoHistoryDuplicates:      false,
		EscapeTimeout:            100 * time.Millisecond,
		WideCharWidth:            WidthModeGrapheme,
		FastHistoryReplace:       false,
	}
}

func (c *Config) clamp() {
	if c.MaxHistorySize < 10 {
		c.MaxHistorySize = 10
	}
	if c.MaxHistorySize > 50000 {
		c.MaxHistorySize = 50000
	}
	if c.MaxUndoActions < 0 {
		c.MaxUndoActions = 0
	}
	if c.EscapeTimeout <= 0 {
		c.EscapeTimeout = 100 * time.Millisecond
	}
}

// Option configures a Config at Create time, following the functional-option
// pattern of tea/internal/application/program/options.go (collapsed to a
// non-generic Option since Editor has a single concrete type).
type Option func(*Config)

// WithMaxHistorySize sets the History Store capacity.
func WithMaxHistorySize(n int) Option {
	return func(c *Config) { c.MaxHistorySize = n }
}

// WithMaxUndoActions sets the undo ring capacity.
func WithMaxUndoActions(n int) Option {
	return func(c *Config) { c.MaxUndoActions = n }
}

// WithMultiline enables the continuation-checker hook.
func WithMultiline(enabled bool) Option {
	return func(c *Config) { c.EnableMultiline = enabled }
}

// WithSyntaxHighlighting enables the style hook.
func WithSyntaxHighlighting(enabled bool) Option {
	return func(c *Config) { c.EnableSyntaxHighlighting = enabled }
}

// WithAutoCompletion enables the completion hook.
func WithAutoCompletion(enabled bool) Option {
	return func(c *Config) { c.EnableAutoCompletion = enabled }
}

// WithHistory enables the History Store.
func WithHistory(enabled bool) Option {
	return func(c *Config) { c.EnableHistory = enabled }
}

// WithUndo enables the undo ring.
func WithUndo(enabled bool) Option {
	return func(c *Config) { c.EnableUndo = enabled }
}

// WithNoHistoryDuplicates enables History Store's no_duplicates mode.
func WithNoHistoryDuplicates(enabled bool) Option {
	return func(c *Config) { c.NoHistoryDuplicates = enabled }
}

// WithEscapeTimeout sets the Key Decoder's escape-assembly timeout.
func WithEscapeTimeout(d time.Duration) Option {
	return func(c *Config) { c.EscapeTimeout = d }
}

// WithWideCharWidth selects the width-measurement strategy.
func WithWideCharWidth(mode WidthMode) Option {
	return func(c *Config) { c.WideCharWidth = mode }
}

// WithFastHistoryReplace opts into the cheaper, more fragile replace_all path.
func WithFastHistoryReplace(enabled bool) Option {
	return func(c *Config) { c.FastHistoryReplace = enabled }
}
