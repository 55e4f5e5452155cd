package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stylebridge/archive"
	"stylebridge/common"
	"stylebridge/convert/sprite"
	"stylebridge/ir"
	"stylebridge/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Target = env.Cfg.Conversion.Target
	if cmd.IsSet("to") {
		if env.Target, err = common.ParseTargetFmt(cmd.String("to")); err != nil {
			return err
		}
	}
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.Sprite = cmd.Bool("sprite") || env.Cfg.Sprite.Generate

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Target))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, env, log)
}

// job is a single style found in the source.
type job struct {
	// src is path relative to the source root including file name, used to
	// build output name.
	src string
	// origin is human readable location for logs.
	origin string
	data   []byte
	// icons referenced by style are resolved against dir in icons.
	icons fs.FS
	dir   string
}

// batch collects jobs and keeps archives they reference open until all jobs
// are done.
type batch struct {
	jobs    []job
	closers []io.Closer
}

func (b *batch) close() error {
	var err error
	for _, c := range b.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// process handles the core conversion logic independently of CLI framework. It
// determines the input type (directory, archive, or single file), collects
// styles and converts them in parallel.
func process(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger) (err error) {
	b := &batch{}
	defer func() {
		if cerr := b.close(); cerr != nil {
			log.Warn("Unable to close archives", zap.Error(cerr))
		}
	}()

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := b.collectDir(ctx, head, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := b.collectArchive(ctx, head, filepath.ToSlash(tail), "", log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		style, data, err := isStyleFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if style && len(tail) == 0 {
			b.jobs = append(b.jobs, job{
				src:    filepath.Base(head),
				origin: head,
				data:   data,
				icons:  os.DirFS(filepath.Dir(head)),
				dir:    ".",
			})
			break
		}
		return fmt.Errorf("input was not recognized as style (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}

	return b.run(ctx, dst, env, log)
}

// collectDir walks directory tree finding styles and archives with styles.
func (b *batch) collectDir(ctx context.Context, dir string, log *zap.Logger) error {
	icons := os.DirFS(dir)
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(p)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", p), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := b.collectArchive(ctx, p, "", filepath.Dir(rel), log); err != nil {
				log.Error("Unable to process archive", zap.String("file", p), zap.Error(err))
			}
			return nil
		}

		style, data, err := isStyleFile(p)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", p), zap.Error(err))
			return nil
		}
		if !style {
			log.Debug("Skipping file, not recognized as style or archive", zap.String("file", p))
			return nil
		}
		b.jobs = append(b.jobs, job{
			src:    rel,
			origin: p,
			data:   data,
			icons:  icons,
			dir:    path.Dir(filepath.ToSlash(rel)),
		})
		return nil
	})
}

// collectArchive finds styles under "pathIn" inside archive. Archive stays
// open so icons could be taken from it later.
func (b *batch) collectArchive(ctx context.Context, name, pathIn, pathOut string, log *zap.Logger) error {
	r, err := zip.OpenReader(name)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, r)

	count := 0
	err = archive.Walk(name, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		style, data, err := isStyleInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !style {
			log.Debug("Skipping file, not recognized as style", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		count++
		b.jobs = append(b.jobs, job{
			src:    filepath.Join(pathOut, filepath.FromSlash(f.Name)),
			origin: arc + ":" + f.Name,
			data:   data,
			icons:  r,
			dir:    path.Dir(f.Name),
		})
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", name))
	}
	return err
}

// run converts collected styles in parallel. Failure of one style does not
// stop others, all failures are reported together.
func (b *batch) run(ctx context.Context, dst string, env *state.LocalEnv, log *zap.Logger) error {
	if len(b.jobs) == 0 {
		log.Info("Nothing to process")
		return nil
	}

	var sprites *sprite.Builder
	if env.Sprite && env.Target == common.TargetFmtMapbox {
		var err error
		if sprites, err = sprite.NewBuilder(&env.Cfg.Sprite, log); err != nil {
			return err
		}
		defer sprites.Close()
	}

	workers := env.Cfg.Conversion.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu   sync.Mutex
		errs error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range b.jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := convertStyle(j, dst, env, sprites, log); err != nil {
				log.Error("Unable to convert style", zap.String("file", j.origin), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", j.origin, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := len(multierr.Errors(errs)); n > 0 {
		return fmt.Errorf("%d of %d inputs failed: %w", n, len(b.jobs), errs)
	}
	return nil
}

// convertStyle processes single style. "dst" is the destination directory
// where the converted file should be written.
func convertStyle(j job, dst string, env *state.LocalEnv, sprites *sprite.Builder, log *zap.Logger) (rerr error) {
	var outputName string

	log.Info("Conversion starting", zap.String("from", j.origin))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	if env.Rpt != nil {
		env.Rpt.StoreData(filepath.ToSlash(filepath.Join("input", j.src)), j.data)
	}

	style, err := ir.Read(j.data, filepath.Ext(j.src))
	if err != nil {
		return fmt.Errorf("unable to parse style: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(filepath.ToSlash(filepath.Join("ir", j.src+".txt")), []byte(style.Dump()))
	}

	out, err := Translate(style, env.Target, env.Cfg, log)
	if err != nil {
		return err
	}
	for _, w := range out.Warnings {
		log.Warn(w, zap.String("style", style.Name))
	}

	outputName = buildOutputPath(style, j.src, dst, env)
	if err := prepareOutput(outputName, env, log); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, out.Data, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	base := strings.TrimSuffix(outputName, filepath.Ext(outputName))

	if env.Cfg.Conversion.WriteWarnings && len(out.Warnings) > 0 {
		report := strings.Join(out.Warnings, "\n") + "\n"
		if err := os.WriteFile(base+".warnings.txt", []byte(report), 0644); err != nil {
			return fmt.Errorf("unable to write warnings: %w", err)
		}
	}

	if sprites != nil && len(out.Icons) > 0 {
		if err := writeSprites(sprites, j, out.Icons, base+"-sprite", env, log); err != nil {
			return err
		}
	}

	if env.Rpt != nil {
		env.Rpt.Store(filepath.ToSlash(filepath.Join("result", filepath.Base(outputName))), outputName)
	}
	return nil
}

// prepareOutput makes sure output file could be written.
func prepareOutput(outputName string, env *state.LocalEnv, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

func writeSprites(sprites *sprite.Builder, j job, icons []string, base string, env *state.LocalEnv, log *zap.Logger) error {
	ratios := []int{1}
	if env.Cfg.Sprite.HighDPI {
		ratios = append(ratios, 2)
	}
	for _, ratio := range ratios {
		sheet, skipped, err := sprites.Build(j.icons, j.dir, icons, ratio)
		if err != nil {
			log.Warn("Sprite sheet was not generated", zap.String("style", j.origin), zap.Error(err))
			return nil
		}
		if len(skipped) > 0 {
			log.Warn("Some icons were not added to sprite sheet", zap.Strings("icons", skipped))
		}
		if err := sheet.Write(base); err != nil {
			return err
		}
	}
	return nil
}
