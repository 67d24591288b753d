package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"atlas-repacker/config"
	"atlas-repacker/logger"
	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
)

type (
	Args struct {
		config.Config
		Dump          *DumpCmd          `arg:"subcommand:dump" help:"print one object of a container as JSON"`
		Load          *LoadCmd          `arg:"subcommand:load" help:"load an atlas, list its sprites and write a preview"`
		Save          *SaveCmd          `arg:"subcommand:save" help:"load an atlas, apply edits and save it back"`
		Pack          *PackCmd          `arg:"subcommand:pack" help:"repack the sprites of an atlas"`
		Import        *ImportCmd        `arg:"subcommand:import" help:"replace the sprite list with a JSON file and save"`
		Export        *ExportCmd        `arg:"subcommand:export" help:"write the sprite list as JSON"`
		ImportSprites *ImportSpritesCmd `arg:"subcommand:import-sprites" help:"add PNG sprites, repack and save"`
		ExportSprites *ExportSpritesCmd `arg:"subcommand:export-sprites" help:"write every sprite as a PNG"`
		Scan          *ScanCmd          `arg:"subcommand:scan" help:"locate an atlas and remember where it is"`
		Mnemonics     *MnemonicsCmd     `arg:"subcommand:mnemonics" help:"print the WebAssembly opcode table"`
		Interactive   *InteractiveCmd   `arg:"subcommand:interactive" help:"pick the data folder and atlas in a terminal UI"`
	}
	AtlasArgs struct {
		Name   string `arg:"positional,required" help:"atlas name, resolution suffixes are ignored" placeholder:"NAME"`
		LowRes bool   `arg:"--low-res" help:"use the low resolution atlas"`
	}
	DumpCmd struct {
		File   string `arg:"positional,required" help:"container file" placeholder:"FILE"`
		PathID int64  `arg:"positional" help:"object path id; lists every object when omitted" placeholder:"PATH_ID"`
		Out    string `arg:"-o,--out" help:"write the JSON to a file" placeholder:"FILE"`
	}
	LoadCmd struct {
		AtlasArgs
	}
	SaveCmd struct {
		AtlasArgs
		Sprites string `arg:"--sprites" help:"sprite JSON to apply before saving" placeholder:"FILE"`
		Atlas   string `arg:"--atlas" help:"atlas image to apply before saving" placeholder:"PNG"`
	}
	PackCmd struct {
		AtlasArgs
		Save bool `help:"save the repacked atlas"`
	}
	ImportCmd struct {
		AtlasArgs
		From string `arg:"positional,required" help:"sprite JSON" placeholder:"FILE"`
	}
	ExportCmd struct {
		AtlasArgs
		To string `arg:"positional,required" help:"destination JSON" placeholder:"FILE"`
	}
	ImportSpritesCmd struct {
		AtlasArgs
		Paths []string `arg:"positional,required" help:"PNG files or folders of PNG files" placeholder:"PATH"`
	}
	ExportSpritesCmd struct {
		AtlasArgs
		To string `arg:"positional,required" help:"destination folder" placeholder:"DIR"`
	}
	ScanCmd struct {
		AtlasArgs
		TUI bool `arg:"--tui" help:"show the progress in a terminal UI"`
	}
	MnemonicsCmd struct {
		Proposals bool `help:"only list opcodes from post-MVP proposals"`
	}
	InteractiveCmd struct {
		Name   string `arg:"positional" help:"atlas name" placeholder:"NAME"`
		LowRes bool   `arg:"--low-res" help:"use the low resolution atlas"`
	}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"Sprite atlas repacker.\n",
			"Finds NGUI and SmoothMoves atlases inside extracted asset containers,",
			"repacks, imports and exports their sprites and writes them back.",
		},
		"\n",
	)
	des += "\n"
	return des
}

// Start parses the command line, runs the chosen command and exits. Panics are
// written to the exception log before exiting with a non-zero status.
func Start() {
	args := Args{Config: config.Default()}
	parser := arg.MustParse(&args)

	exceptions := logger.NewFile(args.LogPath)
	defer func() {
		if recovered := recover(); recovered != nil {
			err := errors.Errorf("panic: %v", recovered)
			logger.Error(exceptions, err, "Unexpected failure")
			fmt.Fprintf(os.Stderr, "Unexpected failure, details were written to %s\n", exceptions.Path())
			os.Exit(2)
		}
	}()

	if parser.Subcommand() == nil {
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console := logger.New(os.Stderr)
	console.Verbose = args.Verbose
	e := &env{
		config: args.Config,
		sink:   logger.Multi(console, exceptions),
	}
	if err := e.run(ctx, args); err != nil {
		logger.Error(e.sink, err, "Command failed")
		stop()
		os.Exit(1)
	}
}
