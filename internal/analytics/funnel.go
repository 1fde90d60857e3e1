package analytics

import (
	"leadboard/internal/models"
)

// TotalStep labels the synthetic first funnel step.
const TotalStep = "Total Leads"

// Membership sets: a lead counts toward a funnel stage when its current state
// is the stage itself or any state only reachable after it.
var (
	purchasedStates = []models.CRMState{
		models.StatePurchased,
		models.StateActiveClient,
		models.StatePlanCompleted,
		models.StateRepurchased,
	}
	attendedStates = append([]models.CRMState{
		models.StateAttended,
		models.StateNotPurchased,
	}, purchasedStates...)
	scheduledStates = append([]models.CRMState{
		models.StateScheduled,
		models.StateNoShow,
		models.StateCanceled,
	}, attendedStates...)
	linkSentStates     = append([]models.CRMState{models.StateLinkSent}, scheduledStates...)
	prequalifiedStates = append([]models.CRMState{models.StatePrequalified}, linkSentStates...)
	conversationStates = append([]models.CRMState{models.StateInConversation, models.StateDisqualified, models.StateRequiresHuman}, prequalifiedStates...)
)

type funnelStage struct {
	state       models.CRMState
	reached     []models.CRMState
	leakedLabel string
}

var funnelStages = []funnelStage{
	{state: models.StateInConversation, reached: conversationStates, leakedLabel: "sin calificar"},
	{state: models.StatePrequalified, reached: prequalifiedStates, leakedLabel: "sin link enviado"},
	{state: models.StateLinkSent, reached: linkSentStates, leakedLabel: "sin agendar"},
	{state: models.StateScheduled, reached: scheduledStates, leakedLabel: "no asistieron"},
	{state: models.StateAttended, reached: attendedStates, leakedLabel: "no compraron"},
	{state: models.StatePurchased, reached: purchasedStates},
}

// Funnel returns the cumulative-forward funnel, led by a TotalStep entry.
// Counts never increase from one step to the next.
func Funnel(leads []models.Lead) []models.FunnelStep {
	if len(leads) == 0 {
		return []models.FunnelStep{}
	}

	total := len(leads)
	counts := make([]int, len(funnelStages))
	for i, stage := range funnelStages {
		for _, lead := range leads {
			if lead.InAny(stage.reached...) {
				counts[i]++
			}
		}
	}

	steps := make([]models.FunnelStep, 0, len(funnelStages)+1)
	steps = append(steps, models.FunnelStep{
		State:                  TotalStep,
		Count:                  total,
		PercentOfTotal:         1,
		ConversionFromPrevious: 1,
		Leaked:                 leaked(total, counts[0]),
		LeakedLabel:            "sin conversación",
	})

	for i, stage := range funnelStages {
		previous := total
		if i > 0 {
			previous = counts[i-1]
		}
		conversion := 1.0
		if previous > 0 {
			conversion = float64(counts[i]) / float64(previous)
		}
		next := counts[i]
		if i < len(funnelStages)-1 {
			next = counts[i+1]
		}

		steps = append(steps, models.FunnelStep{
			State:                  string(stage.state),
			Count:                  counts[i],
			PercentOfTotal:         safeDivide(float64(counts[i]), float64(total)),
			ConversionFromPrevious: conversion,
			Leaked:                 leaked(counts[i], next),
			LeakedLabel:            stage.leakedLabel,
		})
	}
	return steps
}

func leaked(count, next int) int {
	if count < next {
		return 0
	}
	return count - next
}

type pipelineBucket struct {
	name   models.CRMState
	states []models.CRMState
	exits  []models.CRMState
}

var pipelineBuckets = []pipelineBucket{
	{
		name:   models.StateInConversation,
		states: []models.CRMState{models.StateInConversation, models.StateRequiresHuman},
		exits:  []models.CRMState{models.StateDisqualified},
	},
	{name: models.StatePrequalified, states: []models.CRMState{models.StatePrequalified}},
	{name: models.StateLinkSent, states: []models.CRMState{models.StateLinkSent}},
	{
		name:   models.StateScheduled,
		states: []models.CRMState{models.StateScheduled},
		exits:  []models.CRMState{models.StateNoShow, models.StateCanceled},
	},
	{
		name:   models.StateAttended,
		states: []models.CRMState{models.StateAttended},
		exits:  []models.CRMState{models.StateNotPurchased},
	},
	{name: models.StatePurchased, states: purchasedStates},
}

// Pipeline counts each lead in exactly one bucket by its literal current
// state. Leads in no bucket make up the remainder, split into those that left
// the pipeline through a known exit and those whose state maps nowhere.
func Pipeline(leads []models.Lead) models.Pipeline {
	total := len(leads)
	pipeline := models.Pipeline{
		Total: total,
		Steps: make([]models.PipelineStep, 0, len(pipelineBuckets)),
	}

	for _, bucket := range pipelineBuckets {
		step := models.PipelineStep{State: string(bucket.name)}
		for _, lead := range leads {
			switch {
			case lead.InAny(bucket.states...):
				step.Count++
			case lead.InAny(bucket.exits...):
				step.Exited++
			}
		}
		step.PercentOfTotal = safeDivide(float64(step.Count), float64(total))

		pipeline.Active += step.Count
		pipeline.Exited += step.Exited
		pipeline.Steps = append(pipeline.Steps, step)
	}

	pipeline.Remainder = total - pipeline.Active
	pipeline.Undefined = pipeline.Remainder - pipeline.Exited
	return pipeline
}
