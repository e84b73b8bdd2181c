package user

import "user-service/internal/domain"

// BuildQuery 每个非 nil 字段产生一个相等条件，顺序固定：
// firstName, lastName, country, nickname, email
func BuildQuery(f domain.Filter) domain.Query {
	var q domain.Query
	fields := []struct {
		name string
		val  *string
	}{
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"country", f.Country},
		{"nickname", f.Nickname},
		{"email", f.Email},
	}
	for _, fd := range fields {
		if fd.val != nil {
			q = q.Eq(fd.name, *fd.val)
		}
	}
	return q
}
