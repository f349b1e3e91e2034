// Profiling:
// go build ./cmd/depotprof
// ./depotprof -mode mem
// go tool pprof -http=":8000" -nodefraction=0.001 ./depotprof mem.pprof

package main

import (
	"flag"
	"os"

	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	mode := flag.String("mode", "cpu", "profile mode: cpu or mem")
	rounds := flag.Int("rounds", 50, "number of fresh worlds")
	iters := flag.Int("iters", 1000, "create/query/delete cycles per world")
	entities := flag.Int("entities", 1000, "entities per cycle")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var p interface{ Stop() }
	switch *mode {
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	if err := run(*rounds, *iters, *entities); err != nil {
		p.Stop()
		logger.Fatal().Err(err).Msg("profiling run failed")
	}
	p.Stop()
	logger.Info().Str("mode", *mode).Int("rounds", *rounds).Msg("profile written")
}

func run(rounds, iters, numEntities int) error {
	for range rounds {
		w := depot.NewWorld(depot.WithInitialCapacity(numEntities))
		c1, err := depot.Register[comp1](w)
		if err != nil {
			return err
		}
		c2, err := depot.Register[comp2](w)
		if err != nil {
			return err
		}

		for range iters {
			for range numEntities {
				if _, err := w.Spawn(comp1{}, comp2{V: 1, W: 1}); err != nil {
					return err
				}
			}

			query, err := w.Query().WithComponent(c1)
			if err != nil {
				return err
			}
			if query, err = query.WithComponent(c2); err != nil {
				return err
			}
			cursor := w.NewCursor(query)
			for cursor.Next() {
				a := c1.GetFromCursor(cursor).BorrowMut()
				b := c2.GetFromCursor(cursor).Borrow()
				a.Get().V += b.Get().V
				a.Get().W += b.Get().W
				b.Release()
				a.Release()
				if err := w.EnqueueDeleteEntity(cursor.EntityIndex()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
