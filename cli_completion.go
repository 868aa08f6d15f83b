package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"golang.org/x/exp/maps"
)

var (
	globalFlagPredictors = map[string]complete.Predictor{
		"config":    predict.Files("*.yaml"),
		"log-level": predict.Set{"trace", "debug", "info", "warn", "error"},
		"color":     predict.Set{"auto", "always", "never"},
	}

	evalFlagPredictors = withGlobalFlags(map[string]complete.Predictor{
		"no-prelude": predict.Nothing,
		"lib":        predict.Dirs("*"),
		"max-steps":  predict.Something,
	})

	completer = &complete.Command{
		Flags: globalFlagPredictors,
		Sub: map[string]*complete.Command{
			PARSE_SUBCMD: {
				Flags: withGlobalFlags(map[string]complete.Predictor{
					"json": predict.Nothing,
				}),
			},
			EVAL_SUBCMD: {Flags: evalFlagPredictors},
			REPL_SUBCMD: {Flags: evalFlagPredictors},
			HELP_SUBCMD: {
				Args: predict.Set{PARSE_SUBCMD, EVAL_SUBCMD, REPL_SUBCMD},
			},
			INSTALL_COMPLETIONS_SUBCMD:   {},
			UNINSTALL_COMPLETIONS_SUBCMD: {},
		},
	}
)

func withGlobalFlags(flags map[string]complete.Predictor) map[string]complete.Predictor {
	maps.Copy(flags, globalFlagPredictors)
	return flags
}
