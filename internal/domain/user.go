package domain

import (
	"sort"
	"strings"
	"time"
)

// Authority — право (роль), выданное пользователю, например ADMIN или USER.
type Authority struct {
	Name string
}

// User — учётная запись, которую использует подсистема аутентификации.
//
// Authorities равен nil, если роли не загружались. Пустой, но не nil срез
// означает, что роли загружены и их нет.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Enabled      bool
	Authorities  []Authority
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthorityNames возвращает имена ролей в порядке хранения.
func (u User) AuthorityNames() []string {
	if u.Authorities == nil {
		return nil
	}
	names := make([]string, 0, len(u.Authorities))
	for _, a := range u.Authorities {
		names = append(names, a.Name)
	}
	return names
}

// CloneAuthorities копирует срез ролей, сохраняя различие между nil и пустым срезом.
func CloneAuthorities(src []Authority) []Authority {
	if src == nil {
		return nil
	}
	dst := make([]Authority, len(src))
	copy(dst, src)
	return dst
}

// NormalizeAuthorities приводит набор ролей к виду, в котором его хранят
// репозитории: имена без пробелов по краям, без пустых и повторов,
// отсортированы по имени. nil остаётся nil.
func NormalizeAuthorities(src []Authority) []Authority {
	if src == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(src))
	out := make([]Authority, 0, len(src))
	for _, a := range src {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, Authority{Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
