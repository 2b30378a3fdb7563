package request

type CreateMemberRequest struct {
	UID  string `json:"uid" binding:"required"`
	Name string `json:"name" binding:"required"`
}
