package server

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blocklane/pir/lane"
	"github.com/blocklane/pir/pir"
)

// Lifecycle implements the seven per-request steps of spec.md §4.7.
type Lifecycle struct {
	Router *lane.Router
	Log    *logrus.Logger
}

// Handle runs one request through acquire-route-validate-evaluate-
// serialise. It never holds any mutex on the snapshot beyond the
// release closure it defers, and it logs exactly the fields spec.md
// §4.7 calls for — lane, variant, err_code, dur — never raw ciphertext
// bytes.
func (l *Lifecycle) Handle(ctx context.Context, env Envelope) (*pir.Response, error) {
	start := time.Now()
	log := l.logger().WithFields(logrus.Fields{"lane": env.Lane, "variant": env.Variant.String()})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, release, err := l.Router.Route(env.Lane)
	if err != nil {
		log.WithFields(logrus.Fields{"err_code": "LaneNotLoaded", "dur": time.Since(start)}).Warn("query rejected")
		return nil, err
	}
	defer release()

	if env.Version != snap.Params.Version {
		log.WithFields(logrus.Fields{"err_code": "VersionMismatch", "dur": time.Since(start)}).Warn("query rejected")
		return nil, pir.ErrVersionMismatch
	}

	q, err := pir.DecodeQuery(env.QueryBytes, snap.Params.Rlwe)
	if err != nil || q.Variant != env.Variant {
		log.WithFields(logrus.Fields{"err_code": "MalformedQuery", "dur": time.Since(start)}).Warn("query rejected")
		return nil, pir.ErrMalformedQuery
	}

	resp, err := pir.Respond(snap.Params, snap, q, env.Packing)
	if err != nil {
		log.WithFields(logrus.Fields{"err_code": "InternalError", "dur": time.Since(start)}).Error("evaluation failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{"dur": time.Since(start)}).Info("query served")
	return resp, nil
}

func (l *Lifecycle) logger() *logrus.Logger {
	if l.Log != nil {
		return l.Log
	}
	return logrus.StandardLogger()
}
