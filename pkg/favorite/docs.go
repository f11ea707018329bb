package favorite

import "github.com/dhis2-sre/campus-events/pkg/model"

// swagger:parameters addFavorite removeFavorite
type _ struct {
	// Event id
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:response Favorites
type _ struct {
	//in: body
	_ []model.Event
}
