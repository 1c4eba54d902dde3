package models

import (
	"fmt"
	"time"

	"github.com/iudanet/sgisync/pkg/api"
)

// AgendaEvent представляет событие агенды (совещание, срок, аудит и т.д.)
type AgendaEvent struct {
	DataInicio  time.Time  `json:"dataInicio"`            // DataInicio начало события
	LastSyncAt  time.Time  `json:"lastSyncAt"`            // LastSyncAt время последней серверной мутации
	CreatedAt   time.Time  `json:"createdAt"`             // CreatedAt время создания (для информации)
	DataFim     *time.Time `json:"dataFim,omitempty"`     // DataFim окончание события (опционально)
	ID          string     `json:"id"`                    // ID уникальный идентификатор (UUID)
	Titulo      string     `json:"titulo"`                // Titulo заголовок
	Descricao   string     `json:"descricao,omitempty"`   // Descricao описание
	Tipo        string     `json:"tipo"`                  // Tipo тип события (REUNIAO, PRAZO, ...)
	Prioridade  string     `json:"prioridade"`            // Prioridade приоритет (BAIXA, NORMAL, ...)
	Local       string     `json:"local,omitempty"`       // Local место проведения
	Cor         string     `json:"cor,omitempty"`         // Cor цвет в календаре
	ProjectID   string     `json:"projectId,omitempty"`   // ProjectID связанный проект
	WorkOrderID string     `json:"workOrderId,omitempty"` // WorkOrderID связанный заказ-наряд
	CreatorID   string     `json:"creatorId"`             // CreatorID автор события
	AttendeeIDs []string   `json:"attendeeIds"`           // AttendeeIDs участники
	SyncVersion int64      `json:"syncVersion"`           // SyncVersion версия, растет при каждой мутации
	DiaInteiro  bool       `json:"diaInteiro"`            // DiaInteiro событие на весь день
}

// Значения по умолчанию для нового события
const (
	DefaultAgendaTipo       = "OUTRO"
	DefaultAgendaPrioridade = "NORMAL"
)

// NewAgendaEvent создает событие из payload create
func NewAgendaEvent(id, creatorID string, p *api.AgendaPayload) (*AgendaEvent, error) {
	if err := p.Validate(api.ActionCreate); err != nil {
		return nil, err
	}

	e := &AgendaEvent{
		ID:          id,
		CreatorID:   creatorID,
		Tipo:        DefaultAgendaTipo,
		Prioridade:  DefaultAgendaPrioridade,
		AttendeeIDs: []string{},
	}
	if err := e.Apply(p); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply переносит в событие поля, присутствующие в payload,
// и проверяет согласованность результата.
func (e *AgendaEvent) Apply(p *api.AgendaPayload) error {
	if p.Titulo != nil {
		e.Titulo = *p.Titulo
	}
	if p.Descricao != nil {
		e.Descricao = *p.Descricao
	}
	if p.Tipo != nil {
		e.Tipo = *p.Tipo
	}
	if p.Prioridade != nil {
		e.Prioridade = *p.Prioridade
	}
	if p.DataInicio != nil {
		e.DataInicio = p.DataInicio.UTC()
	}
	if p.DataFim != nil {
		fim := p.DataFim.UTC()
		e.DataFim = &fim
	}
	if p.DiaInteiro != nil {
		e.DiaInteiro = *p.DiaInteiro
	}
	if p.Local != nil {
		e.Local = *p.Local
	}
	if p.Cor != nil {
		e.Cor = *p.Cor
	}
	if p.ProjectID != nil {
		e.ProjectID = *p.ProjectID
	}
	if p.WorkOrderID != nil {
		e.WorkOrderID = *p.WorkOrderID
	}
	if p.AttendeeIDs != nil {
		e.AttendeeIDs = append([]string{}, *p.AttendeeIDs...)
	}

	if e.DataFim != nil && e.DataFim.Before(e.DataInicio) {
		return fmt.Errorf("%w: dataFim is before dataInicio", api.ErrValidation)
	}
	return nil
}

// Notification представляет уведомление пользователя
type Notification struct {
	LastSyncAt  time.Time `json:"lastSyncAt"`        // LastSyncAt время последней серверной мутации
	CreatedAt   time.Time `json:"createdAt"`         // CreatedAt время создания
	ID          string    `json:"id"`                // ID уникальный идентификатор (UUID)
	UserID      string    `json:"userId"`            // UserID получатель
	Tipo        string    `json:"tipo"`              // Tipo тип уведомления (INFO, ...)
	Titulo      string    `json:"titulo"`            // Titulo заголовок
	Mensagem    string    `json:"mensagem"`          // Mensagem текст
	LinkURL     string    `json:"linkUrl,omitempty"` // LinkURL ссылка на связанный объект
	SyncVersion int64     `json:"syncVersion"`       // SyncVersion версия
	Lido        bool      `json:"lido"`              // Lido прочитано
}

// NotificationTipoInfo тип информационного уведомления
const NotificationTipoInfo = "INFO"

// NewAttendeeNotification уведомление участнику о добавлении в событие
func NewAttendeeNotification(id, userID string, event *AgendaEvent) *Notification {
	return &Notification{
		ID:       id,
		UserID:   userID,
		Tipo:     NotificationTipoInfo,
		Titulo:   "Novo Evento",
		Mensagem: "Você foi adicionado ao evento: " + event.Titulo,
		LinkURL:  "/agenda?event=" + event.ID,
	}
}
