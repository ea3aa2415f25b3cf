package models

// Item is one animal of a room (allat): the label shown to the player, the
// number printed in the room and the image shown on the card.
type Item struct {
	Label    string `json:"nev" bson:"nev"`
	Code     int    `json:"szam" bson:"szam"`
	ImageRef string `json:"url" bson:"url"`
}

// Room represents the szekrenies collection.
type Room struct {
	RoomID int    `json:"szekreny" bson:"szekreny"` // operator assigned, unique
	Name   string `json:"name,omitempty" bson:"name,omitempty"`
	Items  []Item `json:"allatok" bson:"allatok"` // ordered, duplicates allowed
}
