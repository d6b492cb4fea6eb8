package get_slot_candidates

import (
	"context"

	getSlotCandidates "github.com/m04kA/CWB-ReservationService/internal/usecase/get_slot_candidates"
)

type GetSlotCandidatesUseCase interface {
	Execute(ctx context.Context, req *getSlotCandidates.Request) (*getSlotCandidates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
