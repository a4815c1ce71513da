package room

// Account data and tags are per user, so they always use the owning
// client's user ID.

func (r *Room) SetAccountData(dataType string, data interface{}) error {
	return r.admin.SetRoomAccountData(r.owner.UserID(), r.id, dataType, data)
}

func (r *Room) AccountData(dataType string, out interface{}) error {
	return r.admin.RoomAccountData(r.owner.UserID(), r.id, dataType, out)
}

func (r *Room) Tags() (map[string]Tag, error) {
	return r.admin.Tags(r.owner.UserID(), r.id)
}

// AddTag sets tag on the room. order, when not nil, is stored as the tag's
// order; content may carry extra keys.
func (r *Room) AddTag(tag string, order *float64, content map[string]interface{}) error {
	body := make(map[string]interface{}, len(content)+1)
	for k, v := range content {
		body[k] = v
	}

	if order != nil {
		body["order"] = *order
	}

	return r.admin.AddTag(r.owner.UserID(), r.id, tag, body)
}

func (r *Room) RemoveTag(tag string) error {
	return r.admin.RemoveTag(r.owner.UserID(), r.id, tag)
}
