package solvex

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
	"bitbucket.org/olympichub/supplier-hub/internal/tools/requesting"
	"github.com/rs/zerolog"
)

// TransportError wraps the classified request failure (timeout, connection,
// bad status) so soapCall keeps a single error return.
type TransportError struct {
	Cause schema.SupplierResponseError
}

func (e *TransportError) Error() string {
	return string(e.Cause.Code) + ": " + e.Cause.Message
}

func asSupplierError(err error) schema.SupplierResponseError {
	var transportError *TransportError
	if errors.As(err, &transportError) {
		return transportError.Cause
	}

	return schema.NewSupplierError(err.Error())
}

// soapCall posts one Megatec request and returns the extracted Result node.
// HTTP-level failures come back as *TransportError, upstream-reported ones
// as *megatec.Fault/AuthFault/ParseFault.
func soapCall(
	ctx context.Context,
	client *http.Client,
	url string,
	name schema.SupplierRequestName,
	method string,
	params megatec.Params,
) (any, error) {
	envelope := megatec.BuildEnvelope(method, params)

	c := context.WithValue(ctx, schema.RequestingTypeKey, name)

	httpRequest, err := http.NewRequestWithContext(c, http.MethodPost, url, strings.NewReader(envelope))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", megatec.ContentType)
	httpRequest.Header.Set("SOAPAction", megatec.SOAPAction(method))

	response, callErr := requesting.RequestErrors(client.Do(httpRequest))
	if callErr != nil {
		return nil, &TransportError{Cause: *callErr}
	}

	bodyBytes, err := io.ReadAll(response.Body)
	response.Body.Close()
	if err != nil {
		return nil, &TransportError{Cause: schema.NewConnectionError(err.Error())}
	}

	document, err := megatec.Parse(bodyBytes)
	if err != nil {
		return nil, err
	}

	return megatec.ExtractResult(document, method)
}

// newClient builds the per-operation HTTP client: the timeout resolved from
// the request, request/response capture into the bucket and outgoing-request
// logging.
func newClient(
	httpTransport http.RoundTripper,
	timeoutMs int,
	logger *zerolog.Logger,
	bucket requesting.RequestBucket,
) *http.Client {
	return &http.Client{
		Timeout: time.Duration(timeoutMs) * time.Millisecond,
		Transport: &requesting.InterceptorTransport{
			Transport: httpTransport,
			Middlewares: []requesting.TransportMiddleware{
				requesting.NewLoggingTransportMiddleware(logger),
				requesting.NewMetricsTransportMiddleware(),
				requesting.NewBucketTransportMiddleware(bucket),
			},
		},
	}
}
