package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	documents = predict.Files("*")
	levels    = predict.Set{"debug", "info", "warn", "error"}
)

// loadPredictors complete the flags of loadFlags.
func loadPredictors() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"rows-path": predict.Something,
		"comma":     predict.Set{",", ";", "\t"},
	}
}

func with(flags map[string]complete.Predictor, more map[string]complete.Predictor) map[string]complete.Predictor {
	for k, v := range more {
		flags[k] = v
	}
	return flags
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"zone":       predict.Something,
			"log-level":  levels,
			"log-pretty": predict.Nothing,
			"workers":    predict.Something,
			"timeout":    predict.Something,
		},
		Sub: map[string]*complete.Command{
			"parse": {
				Flags: with(loadPredictors(), map[string]complete.Predictor{
					"o":            predict.Files("*.jsonl"),
					"company-only": predict.Nothing,
					"strict":       predict.Nothing,
				}),
				Args: documents,
			},
			"classify": {
				Flags: loadPredictors(),
				Args:  documents,
			},
			"report": {
				Flags: with(loadPredictors(), map[string]complete.Predictor{
					"company-only": predict.Nothing,
					"markdown":     predict.Nothing,
				}),
				Args: documents,
			},
			"validate": {
				Flags: map[string]complete.Predictor{
					"company-only": predict.Nothing,
					"list":         predict.Nothing,
					"markdown":     predict.Nothing,
				},
				Args: predict.Files("*.jsonl"),
			},
			"brokers": {},
		},
	}
}
