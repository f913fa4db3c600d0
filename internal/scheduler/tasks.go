package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskRegenerationRequested = "generator.regeneration_requested"

// RegenerationPayload is the message handed to the external generator when an
// operator asks for new proposals.
type RegenerationPayload struct {
	LeadID      string    `json:"leadId"`
	Feedback    string    `json:"feedback"`
	Channel     string    `json:"channel"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewRegenerationTask(payload RegenerationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRegenerationRequested, data), nil
}

func ParseRegenerationPayload(task *asynq.Task) (RegenerationPayload, error) {
	var payload RegenerationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RegenerationPayload{}, err
	}
	return payload, nil
}
