package request

type SearchTripsRequest struct {
	From string `json:"from" validate:"required,min=1,max=100"`
	To   string `json:"to" validate:"required,min=1,max=100"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}
