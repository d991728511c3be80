package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"pgm2xm/parse"
	"pgm2xm/pipeline"
	"pgm2xm/serialize"
	"pgm2xm/validate"
)

const (
	defaultSampleROM = "m04401b032.u17"
	defaultBIOSROM   = "pgm_m01s.rom"
)

type config struct {
	bios       bool
	noFineTune bool
	list       bool
	all        bool
	verify     bool
	wavDir     string
	biosPath   string

	dump      string
	sampleROM string
	song      int
	output    string
	title     string
}

func usage(fs *flag.FlagSet) {
	fs.SetOutput(os.Stdout)
	fmt.Println("Usage: pgm2xm [options] <z80prg.bin> [sample.rom] [songID] [output.xm] [title]")
	fmt.Println()
	fmt.Println("Inputs ending in .zst are decompressed first.")
	fmt.Println("Defaults: sample ROM " + defaultSampleROM + ", output <z80prg>.<id>.xm, title <z80prg> (<id>)")
	fmt.Println()
	fs.PrintDefaults()
}

func parseArgs(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("pgm2xm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&cfg.bios, "b", false, "Load BIOS samples; addresses are not offset by $400000")
	fs.BoolVar(&cfg.bios, "enable-bios", false, "Same as -b")
	fs.BoolVar(&cfg.noFineTune, "f", false, "Disable the fine tune fix (for conversion to MOD)")
	fs.BoolVar(&cfg.noFineTune, "no-finetunefix", false, "Same as -f")
	fs.BoolVar(&cfg.list, "list", false, "List the songs in the dump and exit")
	fs.BoolVar(&cfg.all, "all", false, "Convert every song in the dump")
	fs.BoolVar(&cfg.verify, "verify", false, "Reload each written module and check its structure")
	fs.StringVar(&cfg.wavDir, "wav", "", "Also write each used sample as a WAV file into `dir`")
	fs.StringVar(&cfg.biosPath, "bios-rom", defaultBIOSROM, "BIOS sample image used with -b")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return cfg, flag.ErrHelp
	}

	cfg.dump = fs.Arg(0)
	cfg.sampleROM = defaultSampleROM
	if fs.NArg() > 1 {
		cfg.sampleROM = fs.Arg(1)
	}
	if fs.NArg() > 2 {
		id, err := strconv.ParseUint(fs.Arg(2), 0, 8)
		if err != nil {
			return cfg, errors.Wrapf(err, "song id %q", fs.Arg(2))
		}
		cfg.song = int(id)
	}
	if fs.NArg() > 3 {
		cfg.output = fs.Arg(3)
	}
	if fs.NArg() > 4 {
		cfg.title = fs.Arg(4)
	}
	return cfg, nil
}

func outputName(dump string, song int) string {
	return fmt.Sprintf("%s.%02x.xm", baseName(dump), song)
}

func defaultTitle(dump string, song int) string {
	return fmt.Sprintf("%s (%02x)", filepath.Base(baseName(dump)), song)
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg, term.IsTerminal(int(os.Stdout.Fd()))); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, tty bool) error {
	dump, err := readImage(cfg.dump)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %s (%d bytes)\n", cfg.dump, len(dump))

	if cfg.list {
		return listSongs(dump)
	}

	rom, err := readImage(cfg.sampleROM)
	if err != nil {
		return errors.Wrap(err, "sample ROM")
	}
	fmt.Printf("  %s loaded, %d bytes\n", cfg.sampleROM, len(rom))

	var bios []byte
	if cfg.bios {
		if bios, err = readImage(cfg.biosPath); err != nil {
			return errors.Wrap(err, "BIOS samples")
		}
		fmt.Printf("  %s loaded, %d bytes (BIOS enabled)\n", cfg.biosPath, len(bios))
	}
	if cfg.noFineTune {
		fmt.Println("  Fine tune fix disabled")
	}

	opts := pipeline.DefaultOptions()
	opts.IncludeBIOS = cfg.bios
	opts.FineTuneFix = !cfg.noFineTune
	opts.Logf = func(format string, args ...any) { fmt.Printf(format, args...) }
	opts.PatternLog = tty

	if !cfg.all {
		return convertSong(cfg, dump, rom, bios, cfg.song, opts)
	}

	songs, err := pipeline.ListSongs(dump)
	if err != nil {
		return err
	}
	failed := 0
	for _, s := range songs {
		single := cfg
		single.output, single.title = "", ""
		if err := convertSong(single, dump, rom, bios, s.Index, opts); err != nil {
			fmt.Printf("  Song $%02X failed: %v\n", s.Index, err)
			failed++
		}
	}
	fmt.Printf("\n%d of %d songs converted\n", len(songs)-failed, len(songs))
	if failed > 0 {
		return errors.Errorf("%d songs failed", failed)
	}
	return nil
}

func listSongs(dump []byte) error {
	songs, err := pipeline.ListSongs(dump)
	if err != nil {
		return err
	}
	fmt.Printf("%d songs\n", len(songs))
	for _, s := range songs {
		if s.Err != nil {
			fmt.Printf("  $%02X: header at $%04X, %v\n", s.Index, s.Header, s.Err)
			continue
		}
		fmt.Printf("  $%02X: header at $%04X, %d channels, %d patterns, %d positions\n",
			s.Index, s.Header, s.Channels, s.Patterns, s.Positions)
	}
	return nil
}

func convertSong(cfg config, dump, rom, bios []byte, song int, opts pipeline.Options) error {
	opts.Song = song
	opts.Title = cfg.title
	if opts.Title == "" {
		opts.Title = defaultTitle(cfg.dump, song)
	}
	output := cfg.output
	if output == "" {
		output = outputName(cfg.dump, song)
	}

	fmt.Println()
	res, err := pipeline.Convert(dump, rom, bios, opts)
	if errors.Cause(err) == parse.ErrSongNotFound {
		fmt.Printf("Song ID does not exist: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, res.XM, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(res.XM), output)
	if len(res.Warnings) > 0 {
		fmt.Printf("  %d warnings\n", len(res.Warnings))
	}

	if cfg.verify {
		check, err := validate.Check(res.XM, res.Song, res.Instruments)
		if err != nil {
			return errors.Wrap(err, "verify")
		}
		fmt.Printf("  Verify: %d channels, %d patterns, %d instruments, plays %v\n",
			check.Channels, check.Patterns, check.Instruments, check.Duration.Round(10*time.Millisecond))
		for _, m := range check.Mismatches {
			fmt.Printf("  Mismatch: %s\n", m)
		}
		if !check.OK() {
			return errors.Errorf("%s failed verification", output)
		}
	}

	if cfg.wavDir != "" {
		if err := writeSamples(cfg.wavDir, res); err != nil {
			return err
		}
	}
	return nil
}

func writeSamples(dir string, res pipeline.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	written := 0
	for _, s := range res.Samples {
		if s.Silent || s.Length == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%02x.wav", s.ID))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = serialize.WriteSampleWAV(f, s, 0)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrap(err, path)
		}
		written++
	}
	fmt.Printf("  %d samples written to %s\n", written, dir)
	return nil
}
