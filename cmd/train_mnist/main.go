package main

import "flag"
import "io"
import "log"
import "os"
import "path/filepath"

import "github.com/google/uuid"
import "github.com/neurlang/hebbian/checkpoint"
import "github.com/neurlang/hebbian/config"
import "github.com/neurlang/hebbian/datasets"
import "github.com/neurlang/hebbian/datasets/mnist"
import "github.com/neurlang/hebbian/learning"
import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/neurlang/hebbian/parallel"
import "github.com/neurlang/hebbian/trainer"
import "github.com/neurlang/hebbian/visualize"
import "golang.org/x/exp/rand"

type options struct {
	params   string
	dataDir  string
	outDir   string
	run      string
	visEvery int
	dbPath   string
	dstmodel string
	debug    bool
	pgo      bool
}

func main() {
	var o options
	flag.StringVar(&o.params, "params", "", "json file overriding the mnist parameters")
	flag.StringVar(&o.dataDir, "data", "", "directory with the mnist files, searched in the default locations when empty")
	flag.StringVar(&o.outDir, "out", "runs", "directory for checkpoints and visualizations")
	flag.StringVar(&o.run, "run", "", "run name, random when empty")
	flag.IntVar(&o.visEvery, "visevery", 100, "render the weights every this many steps")
	flag.StringVar(&o.dbPath, "db", "", "also store checkpoints in this sqlite database")
	flag.StringVar(&o.dstmodel, "dstmodel", "", "model destination .json.lzw file")
	logfile := flag.String("logfile", "", "also log into this file")
	flag.BoolVar(&o.debug, "debug", false, "log the label counts of every batch")
	flag.BoolVar(&o.pgo, "pgo", false, "collect a cpu profile into default.pgo")
	flag.Parse()

	var w io.Writer = os.Stderr
	var file *os.File
	if *logfile != "" {
		var err error
		file, err = os.OpenFile(*logfile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening file: %v", err)
		}
		w = io.MultiWriter(os.Stderr, file)
	}
	l := log.New(w, "", log.LstdFlags)

	err := train(o, l)
	if err != nil {
		l.Println(err)
	}
	if file != nil {
		file.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

// train runs one training run. Every resource it opens is closed on return.
func train(o options, l *log.Logger) error {
	if o.pgo {
		defer profile("default.pgo", l)()
	}

	p := config.MNIST()
	if o.params != "" {
		var err error
		if p, err = config.Load(p, o.params); err != nil {
			return err
		}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	hparams, err := p.Map()
	if err != nil {
		return err
	}
	if o.run == "" {
		o.run = uuid.New().String()
	}
	runDir := filepath.Join(o.outDir, o.run)
	l.Printf("Run %s on %s.", o.run, parallel.Describe())

	var set *mnist.Set
	if o.dataDir != "" {
		set, _, err = mnist.Load(o.dataDir, true)
	} else {
		set, _, err = mnist.New()
	}
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	trainSet, valSet, err := datasets.Split(set, p.ValSplit, rng)
	if err != nil {
		return err
	}
	l.Printf("Split %d samples into %d for training and %d for validation.", set.Len(), trainSet.Len(), valSet.Len())

	loader, err := datasets.NewLoader(trainSet, p.TrainBatchSize, true, 2, p.Seed)
	if err != nil {
		return err
	}

	net, err := feedforward.New(p.InputSize, p.HiddenUnits, p.OutputSize)
	if err != nil {
		return err
	}

	rule, err := learning.NewKrotov(p.Rule())
	if err != nil {
		return err
	}

	evaluator, err := trainer.NewSupervised(net, valSet, 0.2, p.Seed)
	if err != nil {
		return err
	}
	evaluator.BatchSize = p.ValBatchSize

	vis, err := visualize.NewFiles(filepath.Join(runDir, "visualize"), o.visEvery, l)
	if err != nil {
		return err
	}
	defer vis.Close()

	files, err := checkpoint.NewFile(filepath.Join(runDir, "checkpoints"), "mnist")
	if err != nil {
		return err
	}
	sinks := checkpoint.Multi{files}
	if o.dbPath != "" {
		db, err := checkpoint.OpenSQLite(o.dbPath, o.run)
		if err != nil {
			return err
		}
		defer db.Close()
		sinks = append(sinks, db)
	}

	engine, err := trainer.New(trainer.Config{
		Rule:         rule,
		LR:           p.LR,
		Evaluator:    evaluator,
		Visualizer:   vis,
		Checkpointer: sinks,
		Logger:       l,
		Progress:     os.Stdout,
		Debug:        o.debug,
		Seed:         p.Seed,
		Hparams:      hparams,
	})
	if err != nil {
		return err
	}

	if err := engine.Train(net, loader, p.Epochs, p.EvalEvery, p.CheckpointEvery); err != nil {
		return err
	}

	if stats := engine.LastStats(); stats != nil {
		l.Printf("Final evaluation: %v.", stats)
	}
	for i := range evaluator.Accuracies {
		l.Printf("Evaluation %d: loss %.4f, accuracy %.4f.", i+1, evaluator.Losses[i], evaluator.Accuracies[i])
	}

	if o.dstmodel != "" {
		if err := net.WriteCompressedWeightsToFile(o.dstmodel); err != nil {
			return err
		}
		l.Printf("Saved the network to '%s'.", o.dstmodel)
	}
	return nil
}
