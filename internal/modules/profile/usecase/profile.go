package usecase

import (
	"context"

	"prapp/internal/modules/profile/domain"
	"prapp/internal/modules/profile/dto"
	profilein "prapp/internal/modules/profile/port/in"
	"prapp/internal/modules/profile/service"
)

type Interactor struct {
	store  *service.Store
	briefs *service.BriefService
}

func NewInteractor(store *service.Store, briefs *service.BriefService) profilein.Usecase {
	return &Interactor{store: store, briefs: briefs}
}

func (i *Interactor) Load(ctx context.Context) dto.ProfileOutput {
	return toOutput(i.store.Load(ctx), i.store.Durability())
}

func (i *Interactor) Ready() bool {
	return i.store.Ready()
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error) {
	p, err := i.store.Update(ctx, toPatch(input))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(p, i.store.Durability()), nil
}

func (i *Interactor) Modify(ctx context.Context, fn func(dto.ProfileOutput) (dto.UpdateInput, error)) (dto.ProfileOutput, error) {
	p, err := i.store.UpdateWith(ctx, func(current domain.Profile) (domain.Patch, error) {
		input, err := fn(toOutput(current, nil))
		if err != nil {
			return domain.Patch{}, err
		}
		return toPatch(input), nil
	})
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(p, i.store.Durability()), nil
}

func (i *Interactor) Reset(ctx context.Context) dto.ProfileOutput {
	return toOutput(i.store.Reset(ctx), i.store.Durability())
}

func (i *Interactor) Subscribe(fn func(dto.ProfileOutput)) func() {
	return i.store.Subscribe(func(p domain.Profile) {
		fn(toOutput(p, i.store.Durability()))
	})
}

func (i *Interactor) ImportCV(ctx context.Context, input dto.ImportInput) (dto.ProfileOutput, error) {
	p, err := i.briefs.ImportCV(ctx, input.Path)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(p, i.store.Durability()), nil
}

func (i *Interactor) ImportContext(ctx context.Context, input dto.ImportInput) (dto.ProfileOutput, error) {
	p, err := i.briefs.ImportContext(ctx, input.Path)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toOutput(p, i.store.Durability()), nil
}

func (i *Interactor) Export(ctx context.Context) (string, error) {
	return i.briefs.Export(ctx)
}
