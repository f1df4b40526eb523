package models

import "encoding/json"

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        FlexString `json:"id"`
		UserID    FlexString `json:"user_id"`
		Username  FlexString `json:"username"`
		Email     FlexString `json:"email"`
		FirstName FlexString `json:"first_name"`
		LastName  FlexString `json:"last_name"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*u = User{
		ID:        string(wire.ID),
		Username:  string(wire.Username),
		Email:     string(wire.Email),
		FirstName: string(wire.FirstName),
		LastName:  string(wire.LastName),
	}
	if u.ID == "" {
		u.ID = string(wire.UserID)
	}
	return nil
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
