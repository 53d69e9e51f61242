// Command protalign provides a CLI for local alignment of protein sequences.
//
// Usage:
//
//	protalign [command] [options]
//
// Commands:
//
//	align       Align two sequences and print the report
//	score       Print the local alignment score only
//	matrix      Look up a BLOSUM62 substitution score
//	version     Show version information
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/protalign-go/internal/config"
	"github.com/aria-lang/protalign-go/internal/sequence"
	"github.com/aria-lang/protalign-go/pkg/protalign"
	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "score":
		scoreCmd(os.Args[2:])
	case "matrix":
		matrixCmd(os.Args[2:])
	case "version":
		fmt.Println(protalign.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`protalign - Protein Local Alignment

Usage:
  protalign <command> [options]

Commands:
  align     Align two sequences and print the report
  score     Print the local alignment score only
  matrix    Look up a BLOSUM62 substitution score
  version   Show version information
  help      Show this help message

Use "protalign <command> -h" for more information about a command.`)
}

// input holds the flags that name one sequence.
type input struct {
	file, seq, id *string
}

func inputFlags(fs *flag.FlagSet, n int) input {
	return input{
		file: fs.String(fmt.Sprintf("file%d", n), "", fmt.Sprintf("FASTA file for sequence %d (first record)", n)),
		seq:  fs.String(fmt.Sprintf("seq%d", n), "", fmt.Sprintf("Sequence %d as a string", n)),
		id:   fs.String(fmt.Sprintf("id%d", n), fmt.Sprintf("seq%d", n), fmt.Sprintf("Identifier for sequence %d", n)),
	}
}

// load reads the sequence from a file or the command line. A file record
// keeps its own ID unless -idN was set explicitly.
func (in input) load(fs *flag.FlagSet, n int) (*protalign.Sequence, error) {
	var (
		seq *protalign.Sequence
		err error
	)
	switch {
	case *in.file != "":
		seq, err = protalign.ReadFirstFASTA(*in.file)
		if err != nil {
			return nil, err
		}
		explicit := false
		fs.Visit(func(f *flag.Flag) {
			if f.Name == fmt.Sprintf("id%d", n) {
				explicit = true
			}
		})
		if explicit || seq.ID == "" {
			seq.ID = *in.id
		}
	case *in.seq != "":
		seq, err = sequence.WithMetadata(*in.seq, *in.id, "")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("either -file%d or -seq%d is required", n, n)
	}

	if err := sequence.RequireNonEmpty(seq); err != nil {
		return nil, err
	}
	return seq, nil
}

func loadPair(fs *flag.FlagSet, in1, in2 input) (*protalign.Sequence, *protalign.Sequence) {
	s1, err := in1.load(fs, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sequence 1: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	s2, err := in2.load(fs, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sequence 2: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	return s1, s2
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	in1, in2 := inputFlags(fs, 1), inputFlags(fs, 2)
	cfg := config.Default()
	cfg.RegisterFlags(fs)
	progress := fs.Bool("progress", false, "Show a progress bar for permutation trials")
	verbose := fs.Bool("v", false, "Log timing information to stderr")
	tracks := fs.Bool("tracks", false, "Print the unwrapped alignment tracks instead of the report")
	fs.Parse(args)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s1, s2 := loadPair(fs, in1, in2)

	scoring, err := cfg.Scoring()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := protalign.Options{
		Scoring: scoring,
		Trials:  cfg.Trials,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
	}

	var pbs *mpb.Progress
	var bar *mpb.Bar
	if *progress && cfg.Trials > 0 {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(cfg.Trials),
			mpb.PrependDecorators(
				decor.Name("trials: ", decor.WC{W: len("trials: "), C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		opts.OnTrial = func(int) { bar.Increment() }
	}

	if *verbose {
		log.Printf("aligning %s (%s residues) against %s (%s residues)",
			s1.ID, humanize.Comma(int64(s1.Len())), s2.ID, humanize.Comma(int64(s2.Len())))
		if cfg.Trials > 0 {
			log.Printf("running %s permutation trials", humanize.Comma(int64(cfg.Trials)))
		}
	}

	start := time.Now()
	cmp, err := protalign.Compare(ctx, s1, s2, opts)
	if pbs != nil {
		if err != nil {
			bar.Abort(false)
		}
		pbs.Wait()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error aligning sequences: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		log.Printf("done in %s", time.Since(start))
	}

	if *tracks {
		fmt.Println(cmp.Alignment.Format())
		if cmp.Significance != nil {
			fmt.Printf("p-value: %g\n", cmp.Significance.PValue)
		}
		return
	}

	if err := protalign.WriteReport(os.Stdout, cmp); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
}

func scoreCmd(args []string) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	in1, in2 := inputFlags(fs, 1), inputFlags(fs, 2)
	gap := fs.Int("gap", config.Default().GapCost, "Linear gap cost (<= 0)")
	fs.Parse(args)

	s1, s2 := loadPair(fs, in1, in2)

	scoring, err := protalign.NewScoring(*gap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	score, err := protalign.Score(s1, s2, scoring)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scoring sequences: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(score)
}

func matrixCmd(args []string) {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	a := fs.String("a", "", "First residue")
	b := fs.String("b", "", "Second residue")
	fs.Parse(args)

	if len(*a) != 1 || len(*b) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -a and -b must each be a single residue")
		fs.Usage()
		os.Exit(1)
	}

	m := protalign.DefaultScoring().Matrix
	score, err := m.Score((*a)[0], (*b)[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s(%s, %s) = %d\n", m.Name(), *a, *b, score)
}
