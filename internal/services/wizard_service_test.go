package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifty/internal/models/request_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/region"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
	"gifty/pkg/wizard"
)

func newWizardService(t *testing.T) (WizardServiceInterface, repositories.SlotStore, RegionServiceInterface) {
	t.Helper()
	slots := newSlots()
	regions := NewRegionService(slots, region.IN)
	return NewWizardService(testCatalog(t), slots, regions), slots, regions
}

func act(action, value string) request_models.WizardActionRequest {
	return request_models.WizardActionRequest{Action: action, Value: value}
}

func TestWizardServicePerfectFlowEndToEnd(t *testing.T) {
	svc, slots, regions := newWizardService(t)
	ctx := context.Background()
	_, err := regions.Set(ctx, "s1", "us")
	require.NoError(t, err)
	require.NoError(t, slots.Put(ctx, "s1", repositories.SuggestionsSlot(presets.FlowPerfect), []byte(`{"flow":"perfect"}`)))

	v, err := svc.State(ctx, "s1", presets.FlowPerfect)
	require.NoError(t, err)
	assert.Equal(t, 0, v.StepIndex)
	assert.Equal(t, wizard.FieldOccasion, v.Step.Field)
	assert.NotEmpty(t, v.Step.Options)

	v, err = svc.Apply(ctx, "s1", presets.FlowPerfect, act(request_models.WizardSelect, v.Step.Options[0]))
	require.NoError(t, err)
	assert.Equal(t, 1, v.StepIndex)

	v, err = svc.Apply(ctx, "s1", presets.FlowPerfect, act(request_models.WizardCustom, "Grandmother"))
	require.NoError(t, err)
	assert.Equal(t, wizard.FieldInterests, v.Step.Field)

	_, err = svc.Apply(ctx, "s1", presets.FlowPerfect, act(request_models.WizardNext, ""))
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))

	_, err = svc.Apply(ctx, "s1", presets.FlowPerfect, act(request_models.WizardCustom, "Gardening"))
	require.NoError(t, err)
	v, err = svc.Apply(ctx, "s1", presets.FlowPerfect, act(request_models.WizardNext, ""))
	require.NoError(t, err)
	assert.True(t, v.IsFinal)

	_, err = svc.Submit(ctx, "s1", presets.FlowPerfect)
	require.True(t, errors.As(err, &verr), "budget missing")
	_, err = slots.Get(ctx, "s1", repositories.SlotUserInput)
	assert.ErrorIs(t, err, utils.ErrSlotNotFound, "nothing written on failure")

	_, err = svc.Apply(ctx, "s1", presets.FlowPerfect, request_models.WizardActionRequest{Action: request_models.WizardDetails, Budget: "75"})
	require.NoError(t, err)

	req, err := svc.Submit(ctx, "s1", presets.FlowPerfect)
	require.NoError(t, err)
	assert.Equal(t, region.US, req.Region)
	assert.Equal(t, "Grandmother", req.Recipient)
	assert.Equal(t, []string{"Gardening"}, req.Interests)

	stored := getRequest(t, slots, "s1")
	assert.Equal(t, *req, stored)
	_, err = slots.Get(ctx, "s1", repositories.SuggestionsSlot(presets.FlowPerfect))
	assert.ErrorIs(t, err, utils.ErrSlotNotFound, "old suggestions cleared")

	_, err = svc.Submit(ctx, "s1", presets.FlowPerfect)
	assert.ErrorIs(t, err, wizard.ErrAlreadySubmitted)

	v, err = svc.Start(ctx, "s1", presets.FlowPerfect)
	require.NoError(t, err)
	assert.False(t, v.State.Submitted)
	assert.Equal(t, 0, v.StepIndex)
}

func TestWizardServiceFlowsAreIndependent(t *testing.T) {
	svc, _, _ := newWizardService(t)
	ctx := context.Background()

	v, err := svc.State(ctx, "s1", presets.FlowPerfect)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, "s1", presets.FlowPerfect, act(request_models.WizardSelect, v.Step.Options[0]))
	require.NoError(t, err)

	quick, err := svc.State(ctx, "s1", presets.FlowQuick)
	require.NoError(t, err)
	assert.Equal(t, 0, quick.StepIndex)

	other, err := svc.State(ctx, "s2", presets.FlowPerfect)
	require.NoError(t, err)
	assert.Equal(t, 0, other.StepIndex)
}

func TestWizardServiceSeedAndErrors(t *testing.T) {
	svc, slots, _ := newWizardService(t)
	ctx := context.Background()

	v, err := svc.Seed(ctx, "s1", presets.FlowQuick, "Sister", []string{"Music", "music"})
	require.NoError(t, err)
	assert.Equal(t, "Sister", v.State.Recipient)
	assert.Equal(t, []string{"Music"}, v.State.Interests)

	_, err = svc.State(ctx, "s1", "unknown")
	assert.ErrorIs(t, err, presets.ErrUnknownFlow)

	_, err = svc.Apply(ctx, "s1", presets.FlowQuick, act("jump", ""))
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.Apply(ctx, "s1", presets.FlowQuick, act(request_models.WizardBack, ""))
	assert.ErrorIs(t, err, wizard.ErrAtFirstStep)

	require.NoError(t, slots.Put(ctx, "s1", repositories.WizardSlot(presets.FlowQuick), []byte("garbage")))
	v, err = svc.State(ctx, "s1", presets.FlowQuick)
	require.NoError(t, err)
	assert.Empty(t, v.State.Recipient, "malformed state restarts the flow")
}

func TestRegionService(t *testing.T) {
	slots := newSlots()
	svc := NewRegionService(slots, region.US)
	ctx := context.Background()

	s, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, region.US, s.Region)

	_, err = svc.Set(ctx, "s1", "fr")
	assert.ErrorIs(t, err, region.ErrUnknownRegion)

	s, err = svc.Set(ctx, "s1", " in ")
	require.NoError(t, err)
	assert.Equal(t, "₹", s.CurrencySymbol)

	s, err = svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, region.IN, s.Region)

	require.NoError(t, slots.Put(ctx, "s2", repositories.SlotRegion, []byte(`"XX"`)))
	s, err = svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, region.US, s.Region)
}
