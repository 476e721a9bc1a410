// Package main provides the xlhelper command line tool: quick reads, writes
// and formula helpers against a single workbook.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("xlhelper failed")
		os.Exit(1)
	}
}
