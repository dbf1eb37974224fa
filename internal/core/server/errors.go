package server

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/beatforge/fieldgate/internal/core/api"
	"github.com/beatforge/fieldgate/internal/types"
)

// toStatus maps service errors to gRPC status codes. Errors without a known
// sentinel get fallback.
func toStatus(err error, fallback codes.Code) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := fallback
	switch {
	case errors.Is(err, types.ErrDocumentNotFound),
		errors.Is(err, types.ErrFieldNotFound),
		errors.Is(err, types.ErrUnknownDocumentType):
		code = codes.NotFound
	case errors.Is(err, types.ErrTypeMismatch),
		errors.Is(err, types.ErrSchemaMismatch),
		errors.Is(err, types.ErrPathTooDeep),
		errors.Is(err, types.ErrCyclicSchema),
		errors.Is(err, types.ErrNilRoot),
		errors.Is(err, api.ErrInvalidValue):
		code = codes.InvalidArgument
	case errors.Is(err, types.ErrTooManyDocuments):
		code = codes.ResourceExhausted
	case errors.Is(err, api.ErrStoreUnavailable):
		code = codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.Error(code, err.Error())
}
