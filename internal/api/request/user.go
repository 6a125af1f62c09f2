package request

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}
