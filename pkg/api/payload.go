package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrValidation indicates that a change or its payload failed validation
var ErrValidation = errors.New("validation failed")

// Синхронизируемые типы сущностей
const (
	KindAgenda       = "agenda"
	KindNotification = "notification"
)

// Действия над сущностями
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Допустимые значения AgendaPayload.Tipo
var AgendaTipos = []string{"REUNIAO", "PRAZO", "OS", "AUDITORIA", "MANUTENCAO", "FORMACAO", "OUTRO"}

// Допустимые значения AgendaPayload.Prioridade
var AgendaPrioridades = []string{"BAIXA", "NORMAL", "ALTA", "CRITICA"}

// Payload конкретный тип данных мутации, выбранный по entityKind
type Payload interface {
	EntityKind() string
	Validate(action string) error
}

// AgendaPayload поля события агенды. Nil означает "поле не передано",
// что важно для частичного update.
type AgendaPayload struct {
	Titulo      *string    `json:"titulo,omitempty"`
	Descricao   *string    `json:"descricao,omitempty"`
	Tipo        *string    `json:"tipo,omitempty"`
	Prioridade  *string    `json:"prioridade,omitempty"`
	DataInicio  *time.Time `json:"dataInicio,omitempty"`
	DataFim     *time.Time `json:"dataFim,omitempty"`
	DiaInteiro  *bool      `json:"diaInteiro,omitempty"`
	Local       *string    `json:"local,omitempty"`
	Cor         *string    `json:"cor,omitempty"`
	ProjectID   *string    `json:"projectId,omitempty"`
	WorkOrderID *string    `json:"workOrderId,omitempty"`
	AttendeeIDs *[]string  `json:"attendeeIds,omitempty"`
}

// EntityKind implements Payload
func (p *AgendaPayload) EntityKind() string { return KindAgenda }

// Validate проверяет поля для заданного действия
func (p *AgendaPayload) Validate(action string) error {
	if action == ActionCreate {
		if p.Titulo == nil {
			return fmt.Errorf("%w: titulo is required", ErrValidation)
		}
		if p.DataInicio == nil {
			return fmt.Errorf("%w: dataInicio is required", ErrValidation)
		}
	}

	if p.Titulo != nil && strings.TrimSpace(*p.Titulo) == "" {
		return fmt.Errorf("%w: titulo cannot be empty", ErrValidation)
	}
	if p.Tipo != nil && !slices.Contains(AgendaTipos, *p.Tipo) {
		return fmt.Errorf("%w: unknown tipo %q", ErrValidation, *p.Tipo)
	}
	if p.Prioridade != nil && !slices.Contains(AgendaPrioridades, *p.Prioridade) {
		return fmt.Errorf("%w: unknown prioridade %q", ErrValidation, *p.Prioridade)
	}
	if p.DataInicio != nil && p.DataFim != nil && p.DataFim.Before(*p.DataInicio) {
		return fmt.Errorf("%w: dataFim is before dataInicio", ErrValidation)
	}
	return nil
}

// NotificationPayload изменение уведомления (только отметка о прочтении)
type NotificationPayload struct {
	Lido *bool `json:"lido,omitempty"`
}

// EntityKind implements Payload
func (p *NotificationPayload) EntityKind() string { return KindNotification }

// Validate проверяет поля для заданного действия
func (p *NotificationPayload) Validate(action string) error {
	if action != ActionUpdate {
		return fmt.Errorf("%w: notification supports only %s", ErrValidation, ActionUpdate)
	}
	if p.Lido == nil {
		return fmt.Errorf("%w: lido is required", ErrValidation)
	}
	return nil
}

// ValidateChange проверяет оболочку мутации: тип, действие и наличие targetId
func ValidateChange(c *Change) error {
	switch c.EntityKind {
	case KindAgenda, KindNotification:
	case "":
		return fmt.Errorf("%w: entityKind is required", ErrValidation)
	default:
		return fmt.Errorf("%w: unknown entityKind %q", ErrValidation, c.EntityKind)
	}

	switch c.Action {
	case ActionCreate:
	case ActionUpdate, ActionDelete:
		if c.TargetID == "" {
			return fmt.Errorf("%w: targetId is required for %s", ErrValidation, c.Action)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, c.Action)
	}
	return nil
}

// DecodePayload разбирает payload в конкретный тип по entityKind и проверяет его.
// Для delete payload не нужен и возвращается nil.
func DecodePayload(entityKind, action string, raw json.RawMessage) (Payload, error) {
	if action == ActionDelete {
		if entityKind == KindNotification {
			return nil, fmt.Errorf("%w: notification supports only %s", ErrValidation, ActionUpdate)
		}
		return nil, nil
	}

	var p Payload
	switch entityKind {
	case KindAgenda:
		p = &AgendaPayload{}
	case KindNotification:
		p = &NotificationPayload{}
	default:
		return nil, fmt.Errorf("%w: unknown entityKind %q", ErrValidation, entityKind)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: payload is required for %s", ErrValidation, action)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("%w: invalid %s payload: %v", ErrValidation, entityKind, err)
	}
	if err := p.Validate(action); err != nil {
		return nil, err
	}
	return p, nil
}
