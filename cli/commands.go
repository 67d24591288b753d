package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"atlas-repacker/asset/ajson"
	"atlas-repacker/config"
	"atlas-repacker/container"
	"atlas-repacker/discovery"
	"atlas-repacker/lfile"
	"atlas-repacker/logger"
	"atlas-repacker/schema"
	"atlas-repacker/sheet"
	"atlas-repacker/ui"
	"atlas-repacker/wasm"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// env carries what every command shares.
type env struct {
	config  config.Config
	sink    logger.Sink
	out     io.Writer
	schema  *schema.Schema
	locator *discovery.Locator
}

// ErrReturnCode is returned when an atlas operation did not succeed.
type ErrReturnCode struct {
	Code sheet.ReturnCode
}

func (r ErrReturnCode) Error() string {
	return fmt.Sprintf("operation ended with %s", r.Code)
}

func check(code sheet.ReturnCode) error {
	if code == sheet.Success {
		return nil
	}
	return ErrReturnCode{Code: code}
}

func (r *env) run(ctx context.Context, args Args) error {
	if r.out == nil {
		r.out = os.Stdout
	}
	switch {
	case args.Dump != nil:
		return r.dump(*args.Dump)
	case args.Mnemonics != nil:
		return r.mnemonics(*args.Mnemonics)
	case args.Interactive != nil:
		return r.interactive(ctx, *args.Interactive)
	}

	if err := r.prepare(); err != nil {
		return err
	}
	switch {
	case args.Load != nil:
		return r.load(ctx, *args.Load)
	case args.Save != nil:
		return r.save(ctx, *args.Save)
	case args.Pack != nil:
		return r.pack(ctx, *args.Pack)
	case args.Import != nil:
		return r.edit(ctx, args.Import.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
			return m.Import(args.Import.From)
		})
	case args.Export != nil:
		return r.withAtlas(ctx, args.Export.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
			return m.Export(args.Export.To)
		})
	case args.ImportSprites != nil:
		return r.edit(ctx, args.ImportSprites.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
			return m.ImportSprites(args.ImportSprites.Paths, r.config.Spacing)
		})
	case args.ExportSprites != nil:
		return r.withAtlas(ctx, args.ExportSprites.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
			return m.ExportSprites(args.ExportSprites.To)
		})
	case args.Scan != nil:
		return r.scan(ctx, *args.Scan)
	}
	return errors.New("cli.run error: no command given")
}

// prepare loads the schema and the discovery cache.
func (r *env) prepare() error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	s, err := schema.Load()
	if err != nil {
		return err
	}
	cache, err := discovery.LoadCache(r.config.CacheFile())
	if err != nil {
		logger.Error(r.sink, err, "Discarding the discovery cache")
		cache = discovery.NewCache()
	}
	r.schema = s
	r.locator = discovery.NewLocator(
		discovery.NewScanner(r.config.DataDir, s, r.sink),
		cache,
		r.config.CacheFile(),
	)
	return nil
}

func (r *env) manager(atlas AtlasArgs) *sheet.Manager {
	return sheet.New(atlas.Name, atlas.LowRes, sheet.Options{
		Config:  r.config,
		Locator: r.locator,
		Schema:  r.schema,
		Sink:    r.sink,
	})
}

// withAtlas loads the atlas and runs f on it.
func (r *env) withAtlas(ctx context.Context, atlas AtlasArgs, f func(m *sheet.Manager) sheet.ReturnCode) error {
	m := r.manager(atlas)
	if err := check(m.Load(ctx)); err != nil {
		return err
	}
	return check(f(m))
}

// edit loads the atlas, runs f and saves the result.
func (r *env) edit(ctx context.Context, atlas AtlasArgs, f func(m *sheet.Manager) sheet.ReturnCode) error {
	return r.withAtlas(ctx, atlas, func(m *sheet.Manager) sheet.ReturnCode {
		if code := f(m); code != sheet.Success {
			return code
		}
		return m.Save(ctx)
	})
}

func (r *env) printSprites(m *sheet.Manager) {
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tX\tY\tWIDTH\tHEIGHT\tORIGIN\n")
	for _, record := range m.Sprites() {
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g,%g\n",
			record.Name, record.StartX, record.StartY, record.Width, record.Height,
			record.Origin.X, record.Origin.Y,
		)
	}
	_ = w.Flush()
}

func (r *env) load(ctx context.Context, cmd LoadCmd) error {
	return r.withAtlas(ctx, cmd.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
		r.printSprites(m)
		return m.ExportAtlas(r.config.AtlasImagePath())
	})
}

func (r *env) save(ctx context.Context, cmd SaveCmd) error {
	return r.edit(ctx, cmd.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
		if cmd.Sprites != "" {
			if code := m.Import(cmd.Sprites); code != sheet.Success {
				return code
			}
		}
		if cmd.Atlas != "" {
			return m.ImportAtlas(cmd.Atlas)
		}
		return sheet.Success
	})
}

func (r *env) pack(ctx context.Context, cmd PackCmd) error {
	return r.withAtlas(ctx, cmd.AtlasArgs, func(m *sheet.Manager) sheet.ReturnCode {
		if code := m.Repack(r.config.Spacing); code != sheet.Success {
			return code
		}
		if code := m.ExportAtlas(r.config.AtlasImagePath()); code != sheet.Success {
			return code
		}
		r.printSprites(m)
		if !cmd.Save {
			return sheet.Success
		}
		return m.Save(ctx)
	})
}

func (r *env) scan(ctx context.Context, cmd ScanCmd) error {
	var entry discovery.Entry
	var err error
	if cmd.TUI {
		entry, err = ui.RunScan(ctx, r.locator, cmd.Name, cmd.LowRes)
	} else {
		r.locator.Scanner.OnProgress = func(p discovery.Progress) {
			logger.Debugf(r.sink, "Searched %d/%d files (%s)", p.Searched, p.Total, p.File)
		}
		entry, err = r.locator.Locate(ctx, cmd.Name, cmd.LowRes)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s atlas %s\n", entry.Layout, entry.Name)
	for _, asset := range entry.Assets {
		fmt.Fprintf(r.out, "  %-12s %-32s %s #%d\n", asset.Type, asset.Name, asset.File, asset.PathID)
	}
	return nil
}

func (r *env) dump(cmd DumpCmd) error {
	file, err := container.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	if cmd.PathID == 0 {
		w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "PATH_ID\tTYPE\tSIZE\tCOMPRESSED\n")
		for _, object := range file.Objects {
			fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", object.PathID, object.TypeName, len(object.Data()), object.Compressed)
		}
		return w.Flush()
	}

	s, err := schema.Load()
	if err != nil {
		return err
	}
	object, ok := file.Find(cmd.PathID)
	if !ok {
		return container.ObjectError{PathID: cmd.PathID, Cause: container.ErrObjectNotFound}
	}
	root, err := s.Root(object.TypeName)
	if err != nil {
		return err
	}
	instance, err := file.Decode(object, root)
	if err != nil {
		return err
	}
	bs, err := ajson.Marshal(instance)
	if err != nil {
		return err
	}
	if cmd.Out != "" {
		return lfile.WriteAtomic(cmd.Out, bs, 0o644)
	}
	_, err = fmt.Fprintln(r.out, string(bs))
	return err
}

func (r *env) mnemonics(cmd MnemonicsCmd) error {
	opcodes := lo.Filter(wasm.All(), func(m wasm.Mnemonic, _ int) bool {
		return !cmd.Proposals || m.IsProposal()
	})
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "OPCODE\tNAME\tPROPOSAL\n")
	for _, m := range opcodes {
		fmt.Fprintf(w, "0x%02X\t%s\t%t\n", byte(m), m, m.IsProposal())
	}
	return w.Flush()
}

// interactive asks for the data folder when none is configured, then locates
// and loads the atlas.
func (r *env) interactive(ctx context.Context, cmd InteractiveCmd) error {
	if r.config.DataDir == "" {
		dir, ok, err := ui.SelectDataDir(r.config.WorkDir)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		r.config.DataDir = dir
		fmt.Fprintf(r.out, "Using data folder %s\n", dir)
	}
	if cmd.Name == "" {
		return nil
	}
	if err := r.prepare(); err != nil {
		return err
	}
	if _, err := ui.RunScan(ctx, r.locator, cmd.Name, cmd.LowRes); err != nil {
		return err
	}
	return r.load(ctx, LoadCmd{AtlasArgs: AtlasArgs{Name: cmd.Name, LowRes: cmd.LowRes}})
}
