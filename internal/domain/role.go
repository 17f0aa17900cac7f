package domain

// Permission право пользователя на действие
type Permission string

const (
	PermissionFollow     Permission = "FOLLOW"
	PermissionCollect    Permission = "COLLECT"
	PermissionComment    Permission = "COMMENT"
	PermissionUpload     Permission = "UPLOAD"
	PermissionModerate   Permission = "MODERATE"
	PermissionAdminister Permission = "ADMINISTER"
)

// Role роль пользователя
type Role string

const (
	RoleLocked        Role = "Locked"
	RoleUser          Role = "User"
	RoleModerator     Role = "Moderator"
	RoleAdministrator Role = "Administrator"
)

var rolePermissions = map[Role][]Permission{
	RoleLocked:        {PermissionFollow, PermissionCollect},
	RoleUser:          {PermissionFollow, PermissionCollect, PermissionComment, PermissionUpload},
	RoleModerator:     {PermissionFollow, PermissionCollect, PermissionComment, PermissionUpload, PermissionModerate},
	RoleAdministrator: {PermissionFollow, PermissionCollect, PermissionComment, PermissionUpload, PermissionModerate, PermissionAdminister},
}

// Has сообщает, входит ли perm в набор прав роли
func (r Role) Has(perm Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}
