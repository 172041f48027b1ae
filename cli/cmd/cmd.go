package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pbsmake/lang"
	"github.com/ardnew/pbsmake/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	outputKey      struct{}
)

// WithSourceFiles returns a new context.Context naming the build description
// files that commands read. "-" names standard input.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, sources)
}

func sourceFilesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourceFilesKey{}).([]string)

	return s
}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// sourceFiles reads a list of files in order, then stdin if it was named.
type sourceFiles struct {
	files    []*os.File
	hasStdin bool
	multi    io.Reader
}

// openSourceFiles opens each named source once.
//
// Names resolving to the same file (by device and inode, after following
// symlinks) are read once. Every occurrence of "-" is replaced with a single
// stdin reader placed last.
func openSourceFiles(sources []string) (*sourceFiles, error) {
	if len(sources) == 0 {
		return nil, ErrNoSource
	}

	var srcs sourceFiles

	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := fileKey{}, false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, stdinOK = makeFileKey(info)
	}

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			srcs.Close()

			return nil, ErrOpenSource.With(slog.String("file", src)).Wrap(err)
		}

		key, ok := makeFileKey(info)
		if ok && stdinOK && key == stdinKey {
			srcs.hasStdin = true

			continue
		}

		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		file, err := openResolved(src)
		if err != nil {
			srcs.Close()

			return nil, ErrOpenSource.With(slog.String("file", src)).Wrap(err)
		}

		srcs.files = append(srcs.files, file)
	}

	return &srcs, nil
}

// openResolved opens path after resolving it to an absolute, symlink-free
// path.
func openResolved(path string) (*os.File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	return os.Open(resolved)
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (int, error) {
	if s.multi == nil {
		readers := make([]io.Reader, 0, len(s.files)+1)
		for _, f := range s.files {
			readers = append(readers, &terminated{r: f})
		}

		if s.hasStdin {
			readers = append(readers, &terminated{r: os.Stdin})
		}

		s.multi = io.MultiReader(readers...)
	}

	return s.multi.Read(p)
}

// terminated ends the stream of r with a newline so that lines never join
// across source files. A trailing line continuation is closed with a blank
// line.
type terminated struct {
	r    io.Reader
	tail []byte
	last [2]byte
	n    int
	eof  bool
}

func (t *terminated) Read(p []byte) (int, error) {
	if !t.eof {
		n, err := t.r.Read(p)
		t.observe(p[:n])

		if err == io.EOF {
			t.eof = true
			t.tail = t.terminator()

			if n > 0 {
				return n, nil
			}
		} else {
			return n, err
		}
	}

	if len(t.tail) == 0 {
		return 0, io.EOF
	}

	n := copy(p, t.tail)
	t.tail = t.tail[n:]

	return n, nil
}

func (t *terminated) observe(b []byte) {
	for _, c := range b {
		t.last[0], t.last[1] = t.last[1], c
		t.n++
	}
}

func (t *terminated) terminator() []byte {
	switch {
	case t.n == 0:
		return nil
	case t.last[1] == '\\':
		return []byte("\n\n")
	case t.last[1] != '\n':
		return []byte("\n")
	case t.n > 1 && t.last[0] == '\\':
		return []byte("\n")
	default:
		return nil
	}
}

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var first error

	for _, f := range s.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// loadDocument parses the source files named in ctx as one document.
func loadDocument(ctx context.Context) (*lang.Document, error) {
	names := sourceFilesFrom(ctx)

	srcs, err := openSourceFiles(names)
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	doc, err := lang.ParseReader(ctx, srcs, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "loaded build description",
		slog.Any("files", names),
		slog.String("default_goal", doc.DefaultGoal()),
	)

	return doc, nil
}
