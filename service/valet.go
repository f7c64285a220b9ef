package service

import (
	"context"

	"bff-gateway/domain"

	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
)

// ValetIntake announces a new valet task after the upstream accepted the intake.
type ValetIntake struct {
	publisher Publisher
	logger    log.Logger
}

func NewValetIntake(publisher Publisher, logger log.Logger) ValetIntake {
	return ValetIntake{
		publisher: publisher,
		logger:    logger,
	}
}

func (s ValetIntake) Observe(ctx context.Context, exchange domain.Exchange) {
	task := decodeObject(exchange.ResponseBody)
	id := task["ticket"]
	if id == nil {
		id = task["id"]
	}
	task["id"] = id
	task["status"] = domain.ValetStatusIntake

	s.logger.Debug(ctx, "valet: intake accepted")
	s.publisher.Publish(ctx, domain.EventValetTask, task, domain.RoomGlobal)
}

// ValetStatus announces a valet task status transition.
type ValetStatus struct {
	publisher Publisher
	logger    log.Logger
}

func NewValetStatus(publisher Publisher, logger log.Logger) ValetStatus {
	return ValetStatus{
		publisher: publisher,
		logger:    logger,
	}
}

func (s ValetStatus) Observe(ctx context.Context, exchange domain.Exchange) {
	pathId := exchange.PathParams["id"]
	request := decodeObject(exchange.RequestBody)

	task := decodeObject(exchange.ResponseBody)
	if len(task) == 0 {
		task = request
		task["id"] = pathId
	}
	if isEmpty(task["id"]) {
		task["id"] = pathId
	}
	if isEmpty(task["status"]) {
		task["status"] = request["status"]
	}

	s.logger.Debug(ctx, "valet: status changed", log.String("ticketId", pathId))
	s.publisher.Publish(ctx, domain.EventValetTask, task, domain.RoomGlobal)
}

func decodeObject(data []byte) map[string]any {
	object := make(map[string]any)
	if len(data) == 0 {
		return object
	}
	err := json.Unmarshal(data, &object)
	if err != nil || object == nil {
		return make(map[string]any)
	}
	return object
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}
