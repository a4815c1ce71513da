package room

import (
	"maunium.net/go/mautrix/id"
)

// ModifyUserPowerLevels merges users into the room's power levels. A nil
// level removes the user's entry. usersDefault, when set, replaces
// users_default. Without any override nothing is sent and false is returned.
func (r *Room) ModifyUserPowerLevels(users map[id.UserID]*int, usersDefault *int) bool {
	if len(users) == 0 && usersDefault == nil {
		return false
	}

	doc, err := r.admin.PowerLevels(r.id)
	if err != nil {
		r.log.Warnf("modify user power levels: %s", err)
		return false
	}

	if doc == nil {
		doc = make(map[string]interface{})
	}

	if usersDefault != nil {
		doc["users_default"] = *usersDefault
	}

	if len(users) > 0 {
		overrides := make(map[string]*int, len(users))
		for userID, level := range users {
			overrides[userID.String()] = level
		}

		doc["users"] = mergeLevels(doc["users"], overrides)
	}

	if err := r.admin.SetPowerLevels(r.id, doc); err != nil {
		r.log.Warnf("modify user power levels: %s", err)
		return false
	}

	return true
}

// ModifyRequiredPowerLevels merges the levels needed for actions. events
// maps event types to levels; levels holds top level keys such as ban, kick,
// invite, redact, state_default or events_default. A nil level removes the
// key. Without any override nothing is sent and false is returned.
func (r *Room) ModifyRequiredPowerLevels(events map[string]*int, levels map[string]*int) bool {
	if len(events) == 0 && len(levels) == 0 {
		return false
	}

	doc, err := r.admin.PowerLevels(r.id)
	if err != nil {
		r.log.Warnf("modify required power levels: %s", err)
		return false
	}

	if doc == nil {
		doc = make(map[string]interface{})
	}

	for key, level := range levels {
		if key == "users" || key == "events" {
			r.log.Warnf("modify required power levels: %s is not a single level, skipping", key)
			continue
		}

		if level == nil {
			delete(doc, key)
			continue
		}

		doc[key] = *level
	}

	if len(events) > 0 {
		doc["events"] = mergeLevels(doc["events"], events)
	}

	if err := r.admin.SetPowerLevels(r.id, doc); err != nil {
		r.log.Warnf("modify required power levels: %s", err)
		return false
	}

	return true
}

func mergeLevels(current interface{}, overrides map[string]*int) map[string]interface{} {
	merged := make(map[string]interface{})

	if m, ok := current.(map[string]interface{}); ok {
		for k, v := range m {
			merged[k] = v
		}
	}

	for k, level := range overrides {
		if level == nil {
			delete(merged, k)
			continue
		}

		merged[k] = *level
	}

	return merged
}
