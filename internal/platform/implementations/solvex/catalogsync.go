package solvex

import (
	"context"
	"net/http"

	"bitbucket.org/olympichub/supplier-hub/internal/observability"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/storage"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/slowlog"
	"github.com/rs/zerolog"
)

type catalogSyncRequest struct {
	session       *session
	store         storage.Store
	params        schema.CatalogSyncRequestParams
	configuration schema.SolvexConfiguration
	logger        *zerolog.Logger
	slowLogger    slowlog.Logger
}

// callTimeout is the per-call HTTP timeout inside the walk, not a budget for
// the whole pass. A full catalog pass runs for minutes and is bounded by the
// caller's context instead.
func (r *catalogSyncRequest) callTimeout() int {
	if r.configuration.CallTimeoutMs != nil && *r.configuration.CallTimeoutMs > 0 {
		return *r.configuration.CallTimeoutMs
	}
	if r.params.Timeouts.CatalogSync != nil {
		return *r.params.Timeouts.CatalogSync
	}
	return r.params.Timeouts.Default
}

func (r *catalogSyncRequest) Execute(ctx context.Context, httpTransport http.RoundTripper) (schema.CatalogSyncResponse, error) {
	response := schema.CatalogSyncResponse{}

	requestsBucket := schema.NewSupplierRequestsBucket()
	errorsBucket := schema.NewErrorsBucket()

	response.SupplierRequests = requestsBucket.SupplierRequests()
	response.Errors = errorsBucket.Errors()

	client := newClient(httpTransport, r.callTimeout(), r.logger, &requestsBucket)

	w := newWalker(r.session, r.configuration, r.store, client, r.logger)

	r.slowLogger.Start("solvex:catalogSync:walk")
	manifest, err := w.Walk(ctx)
	r.slowLogger.Stop("solvex:catalogSync:walk")

	response.Manifest = manifest

	if manifest != nil {
		failuresPerLevel := map[string]int{}
		for _, failure := range manifest.Failures {
			failuresPerLevel[string(failure.Level)]++
		}
		observability.ObserveWalk("solvex", manifest.Records, failuresPerLevel)
	}

	if err != nil {
		errorsBucket.AddError(asSupplierError(err))
	}

	return response, nil
}
