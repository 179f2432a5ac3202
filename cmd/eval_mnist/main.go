package main

import "flag"
import "log"
import "os"

import "github.com/neurlang/hebbian/checkpoint"
import "github.com/neurlang/hebbian/config"
import "github.com/neurlang/hebbian/datasets/mnist"
import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/neurlang/hebbian/parallel"
import "github.com/neurlang/hebbian/trainer"
import "github.com/pkg/errors"

func main() {
	params := flag.String("params", "", "json file overriding the mnist parameters")
	dataDir := flag.String("data", "", "directory with the mnist files, searched in the default locations when empty")
	dstmodel := flag.String("dstmodel", "", "model .json.lzw file to evaluate")
	dbPath := flag.String("db", "", "load the latest checkpoint of -run from this sqlite database instead")
	run := flag.String("run", "", "run name in the sqlite database")
	epochs := flag.Int("epochs", 20, "classifier training epochs")
	lr := flag.Float64("lr", 0.1, "classifier learning rate")
	flag.Parse()

	l := log.New(os.Stderr, "", log.LstdFlags)

	p := config.MNIST()
	if *params != "" {
		var err error
		if p, err = config.Load(p, *params); err != nil {
			l.Fatal(err)
		}
	}

	net, err := feedforward.New(p.InputSize, p.HiddenUnits, p.OutputSize)
	if err != nil {
		l.Fatal(err)
	}

	if err := load(net, *dbPath, *run, *dstmodel, l); err != nil {
		l.Fatal(err)
	}

	var infer *mnist.Set
	if *dataDir != "" {
		_, infer, err = mnist.Load(*dataDir, true)
	} else {
		_, infer, err = mnist.New()
	}
	if err != nil {
		l.Fatal(err)
	}

	l.Printf("Evaluating on %d test images using %s.", infer.Len(), parallel.Describe())
	evaluator, err := trainer.NewSupervised(net, infer, 0.2, p.Seed)
	if err != nil {
		l.Fatal(err)
	}
	evaluator.Epochs = *epochs
	evaluator.LR = *lr
	evaluator.BatchSize = p.ValBatchSize

	stats, err := evaluator.Evaluate()
	if err != nil {
		l.Fatal(err)
	}
	l.Printf("Test %v.", stats)
}

// load fills net from the latest checkpoint of run in the database at dbPath,
// or from the dstmodel file when there is no database.
func load(net *feedforward.FeedforwardNetwork, dbPath, run, dstmodel string, l *log.Logger) error {
	if dbPath == "" {
		if dstmodel == "" {
			return errors.New("nothing to evaluate, pass -dstmodel or -db")
		}
		resume := true
		return trainer.Resume(net, &resume, &dstmodel)
	}
	db, err := checkpoint.OpenSQLite(dbPath, run)
	if err != nil {
		return err
	}
	defer db.Close()
	if run == "" {
		runs, err := db.Runs()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return errors.Errorf("no runs in '%s'", dbPath)
		}
		run = runs[0]
	}
	epoch, stats, err := db.Latest(run, net)
	if err != nil {
		return err
	}
	l.Printf("Loaded run %s epoch %d (stored stats %v).", run, epoch, stats)
	return nil
}
