package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iudanet/sgisync/internal/models"
)

// IDPattern определяет допустимый формат идентификаторов пользователя, роли и проекта
// Латинские буквы, цифры, '-', '_' и '.'; длина 1-64 символа
var IDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// ValidateID проверяет идентификатор, который попадает в имя комнаты
func ValidateID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if !IDPattern.MatchString(id) {
		return fmt.Errorf("%s can only contain letters, numbers, '.', '-' and '_' (max 64)", kind)
	}
	return nil
}

// ResolveScope превращает scope из subscribe в имя комнаты.
// Пустой scope и "agenda:all" означают общую ленту, "project:<id>" комнату проекта.
// Комнаты пользователей и ролей назначаются сервером и через subscribe недоступны.
//
// Engine рассылает события agenda без scopes, то есть всем соединениям, поэтому
// подписка на комнату проекта сейчас не добавляет событий сверх общей ленты.
// Комната нужна для Broadcast, адресованного проекту явно (Hub.Broadcast с models.ProjectRoom).
func ResolveScope(scope string) (string, error) {
	switch {
	case scope == "" || scope == models.RoomAgendaAll:
		return models.RoomAgendaAll, nil
	case strings.HasPrefix(scope, "project:"):
		projectID := strings.TrimPrefix(scope, "project:")
		if err := ValidateID("project id", projectID); err != nil {
			return "", err
		}
		return models.ProjectRoom(projectID), nil
	default:
		return "", fmt.Errorf("scope %q is not subscribable", scope)
	}
}
