package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=200"`
	Phone    string  `json:"phone" validate:"required,notblank,max=40"`
	Email    string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Interest string  `json:"interest" validate:"max=200"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Context  *string `json:"context,omitempty" validate:"omitempty,max=4000"`
	Details  *string `json:"details,omitempty" validate:"omitempty,max=8000"`
	Channel  string  `json:"channel,omitempty" validate:"channel"`
}

// UpdateLeadRequest edits the contact fields. Name and phone are always
// replaced; omitted optional fields keep their stored value and an empty
// email clears it.
type UpdateLeadRequest struct {
	Name     string  `json:"name" validate:"max=200"`
	Phone    string  `json:"phone" validate:"max=40"`
	Email    *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Interest *string `json:"interest,omitempty" validate:"omitempty,max=200"`
	Channel  *string `json:"channel,omitempty" validate:"omitempty,channel"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Context  *string `json:"context,omitempty" validate:"omitempty,max=4000"`
}

type ApproveRequest struct {
	Message string `json:"message" validate:"required,notblank"`
	Channel string `json:"channel" validate:"required,sendchannel"`
	Tone    string `json:"tone,omitempty" validate:"tone"`
}

type RegenerateRequest struct {
	Feedback *string `json:"feedback,omitempty" validate:"omitempty,max=4000"`
}

type SendRequest struct {
	Channel string `json:"channel" validate:"required,sendchannel"`
	Subject string `json:"subject,omitempty" validate:"max=300"`
	Body    string `json:"body" validate:"required,notblank"`
}

type MarkSentRequest struct {
	Channel string `json:"channel" validate:"required,sendchannel"`
}

type LaunchRequest struct {
	Channel string `form:"channel" validate:"omitempty,sendchannel"`
	Subject string `form:"subject" validate:"max=300"`
	Text    string `form:"text" validate:"max=8000"`
}

type ListLeadsRequest struct {
	State  string `form:"state" validate:"omitempty,oneof=new pending_approval approved"`
	Search string `form:"search" validate:"max=100"`
	Limit  int    `form:"limit" validate:"min=0,max=1000"`
	Offset int    `form:"offset" validate:"min=0"`
}

// ImportRowsRequest carries rows already parsed by the client.
type ImportRowsRequest struct {
	Rows []map[string]any `json:"rows" validate:"required,min=1,max=5000"`
}

// Response DTOs
type ApprovalResponse struct {
	Message    string    `json:"message"`
	Channel    string    `json:"channel"`
	Tone       *string   `json:"tone,omitempty"`
	ApprovedAt time.Time `json:"approvedAt"`
}

type LeadResponse struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	Phone                string            `json:"phone"`
	Email                *string           `json:"email,omitempty"`
	Interest             string            `json:"interest"`
	Notes                *string           `json:"notes,omitempty"`
	Context              *string           `json:"context,omitempty"`
	Details              *string           `json:"details,omitempty"`
	Channel              string            `json:"channel"`
	State                string            `json:"state"`
	RegenerationFeedback *string           `json:"regenerationFeedback,omitempty"`
	Sequence             *int              `json:"sequence,omitempty"`
	Approval             *ApprovalResponse `json:"approval,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type TextVariantsResponse struct {
	Source  string  `json:"source"`
	Formal  *string `json:"formal"`
	Cordial *string `json:"cordial"`
	Urgent  *string `json:"urgent"`
}

type EmailMessageResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type EmailVariantsResponse struct {
	Source      string                `json:"source"`
	Formal      *EmailMessageResponse `json:"formal"`
	Cordial     *EmailMessageResponse `json:"cordial"`
	Urgent      *EmailMessageResponse `json:"urgent"`
	ParseErrors map[string]string     `json:"parseErrors,omitempty"`
}

type ResolutionResponse struct {
	Status        string                 `json:"status"`
	ProposalSetID *uuid.UUID             `json:"proposalSetId,omitempty"`
	GeneratedAt   *time.Time             `json:"generatedAt,omitempty"`
	WhatsApp      *TextVariantsResponse  `json:"whatsapp"`
	Email         *EmailVariantsResponse `json:"email"`
}

type ProposalSetSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProposalsResponse struct {
	Current ResolutionResponse   `json:"current"`
	History []ProposalSetSummary `json:"history"`
}

type LeadDetailResponse struct {
	Lead      LeadResponse       `json:"lead"`
	Proposals ResolutionResponse `json:"proposals"`
}

type LifecycleEventResponse struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatsResponse struct {
	New             int `json:"new"`
	PendingApproval int `json:"pendingApproval"`
	Approved        int `json:"approved"`
	Total           int `json:"total"`
}

type ImportRowResponse struct {
	Row      int               `json:"row"`
	Fields   map[string]string `json:"fields"`
	Valid    bool              `json:"valid"`
	Errors   []string          `json:"errors"`
	Sequence *int              `json:"sequence,omitempty"`
}

type ImportPreviewResponse struct {
	Rows    []ImportRowResponse `json:"rows"`
	Valid   int                 `json:"valid"`
	Invalid int                 `json:"invalid"`
}

type ImportCommitResponse struct {
	Created  []LeadResponse      `json:"created"`
	Rejected []ImportRowResponse `json:"rejected"`
}

type LaunchResponse struct {
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
	MailtoURL   string `json:"mailtoUrl,omitempty"`
}

type SendResponse struct {
	Channel string `json:"channel"`
	Sent    bool   `json:"sent"`
}
