package errors

import (
	"errors"

	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// searchKindCodes maps search error kinds to business codes
var searchKindCodes = map[types.ErrorKind]int{
	types.KindInvalidQuery: ErrSearchInvalidQuery,
	types.KindTransport:    ErrSearchTransport,
	types.KindServer:       ErrSearchServer,
	types.KindDecode:       ErrSearchDecode,
}

// FromSearchError converts a search failure into an AppError carrying the
// user facing message as details
func FromSearchError(err error) *AppError {
	if err == nil {
		return nil
	}

	var se *types.SearchError
	if !errors.As(err, &se) {
		return Wrap(err, ErrInternalServer)
	}

	code, ok := searchKindCodes[se.Kind]
	if !ok {
		code = ErrInternalServer
	}
	return Wrap(se, code, se.UserMessage())
}
