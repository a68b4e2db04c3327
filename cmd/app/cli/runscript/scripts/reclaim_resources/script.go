package script_reclaim_resources

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/felixge/fgprof"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
)

func run(ctx *cli.Context, deps CommandDeps) error {
	if ctx.Bool("pprof") {
		http.DefaultServeMux.Handle("/debug/fgprof", fgprof.Handler())
		go func() {
			log.Print(http.ListenAndServe("127.0.0.1:6060", nil))
		}()
	}

	log.Info().Msg("running script")

	report, err := deps.ResourceReclaimer.RunNow(ctx.Context, types.ReclaimTriggerCLI)
	if err != nil {
		return errors.Wrap(err, "failed to reclaim resources")
	}

	log.Info().
		Bool("skipped", report.Skipped).
		Int("candidates", report.Candidates).
		Int("reclaimed", report.Reclaimed).
		Int("stray_blobs_reclaimed", report.StrayBlobsReclaimed).
		Int("failed", report.Failed).
		Msg("script finished")

	return nil
}
