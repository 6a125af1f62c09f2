package validation

import (
	"fmt"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/request"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

func ValidateUpdateUserStatus(req request.UpdateUserStatusRequest) error {
	switch req.Status {
	case model.UserStatusActive, model.UserStatusBlocked:
		return nil
	case "":
		return &Error{Fields: map[string]string{"status": "status is required"}}
	default:
		return &Error{Fields: map[string]string{"status": fmt.Sprintf("invalid status: %s", req.Status)}}
	}
}
