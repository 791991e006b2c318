package enums

// ProfileType 用户资料类型。
type ProfileType int

const (
	// ProfileTypeStudent 学生账号
	ProfileTypeStudent ProfileType = 1
	// ProfileTypeTeacher 教师账号
	ProfileTypeTeacher ProfileType = 2
	// ProfileTypeOrganization 机构账号
	ProfileTypeOrganization ProfileType = 3
)

// IsValid 判断给定值是否为合法的资料类型。
func (t ProfileType) IsValid() bool {
	return t == ProfileTypeStudent || t == ProfileTypeTeacher || t == ProfileTypeOrganization
}
