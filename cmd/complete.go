package cmd

import (
	"flag"

	"github.com/etnz/rsutax/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes flag values that have a known shape.
var flagPredictors = map[string]complete.Predictor{
	"config": predict.Files("*.yaml"),
	"rates":  predict.Files("*.csv"),
	"schwab": predict.Files("*.json"),
	"policy": predict.Set{"flat", "threshold-300k"},
	"o":      predict.Files("*"),
}

// Completion returns the shell completion tree of the application.
func Completion() *complete.Command {
	root := &complete.Command{Sub: make(map[string]*complete.Command)}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)

		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		fs.VisitAll(func(f *flag.Flag) {
			if p, ok := flagPredictors[f.Name]; ok {
				sub.Flags[f.Name] = p
			} else {
				sub.Flags[f.Name] = predict.Something
			}
		})
		root.Sub[c.Name()] = sub
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}
