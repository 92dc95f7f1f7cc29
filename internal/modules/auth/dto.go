package auth

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Address  *string `json:"address,omitempty"`
}

type ReviewCreatorRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

type BanRequest struct {
	Banned bool `json:"banned"`
}
