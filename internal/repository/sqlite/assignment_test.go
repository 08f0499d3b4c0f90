package sqlite_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

func TestAssignWorkout_CopiesPerTrainee(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	trainer := seedUser(t, repo, "trainer1", models.RoleTrainer)
	m1 := seedUser(t, repo, "member1", models.RoleMember)
	m2 := seedUser(t, repo, "member2", models.RoleMember)
	templateID := seedTemplate(t, repo, trainer)

	result, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1, m2})
	if err != nil {
		t.Fatalf("AssignWorkout error: %v", err)
	}
	if result.Assigned != 2 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	template, _ := repo.GetWorkout(ctx, templateID)

	for _, member := range []int64{m1, m2} {
		instances, err := repo.ListAssignedTo(ctx, member)
		if err != nil {
			t.Fatalf("ListAssignedTo(%d) error: %v", member, err)
		}
		if len(instances) != 1 {
			t.Fatalf("member %d: expected 1 instance, got %d", member, len(instances))
		}
		inst := instances[0]

		// each instance is an independent full copy
		if inst.ID == templateID {
			t.Fatal("instance shares the template row")
		}
		if inst.Name != template.Name || inst.Level != template.Level {
			t.Fatalf("instance fields differ from template: %#v", inst)
		}
		if inst.SourceID == nil || *inst.SourceID != templateID {
			t.Fatalf("instance should record its source: %#v", inst.SourceID)
		}
		if inst.AssignedBy == nil || *inst.AssignedBy != trainer {
			t.Fatalf("instance should record the assigning trainer: %#v", inst.AssignedBy)
		}
		if inst.Progress != models.ProgressAssigned {
			t.Fatalf("fresh instance progress should be %q, got %q", models.ProgressAssigned, inst.Progress)
		}
		if len(inst.Exercises) != len(template.Exercises) {
			t.Fatalf("exercise copy incomplete: %d vs %d", len(inst.Exercises), len(template.Exercises))
		}
		for i, e := range inst.Exercises {
			te := template.Exercises[i]
			if e.Name != te.Name || e.Sets != te.Sets || e.Reps != te.Reps {
				t.Fatalf("exercise %d differs: %#v vs %#v", i, e, te)
			}
			if e.ID == te.ID {
				t.Fatalf("exercise %d shares the template row", i)
			}
		}
	}
}

func TestAssignWorkout_PartialFailure(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	trainer := seedUser(t, repo, "trainer1", models.RoleTrainer)
	m1 := seedUser(t, repo, "member1", models.RoleMember)
	m2 := seedUser(t, repo, "member2", models.RoleMember)
	templateID := seedTemplate(t, repo, trainer)

	if _, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1}); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	// m1 already has the instance, m2 does not
	result, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1, m2})
	if err != nil {
		t.Fatalf("AssignWorkout error: %v", err)
	}
	if result.Assigned != 1 {
		t.Fatalf("expected 1 assigned, got %d", result.Assigned)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "already assigned") {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	// the duplicate left no extra instance behind
	instances, _ := repo.ListAssignedTo(ctx, m1)
	if len(instances) != 1 {
		t.Fatalf("member1 should keep a single instance, got %d", len(instances))
	}
	instances, _ = repo.ListAssignedTo(ctx, m2)
	if len(instances) != 1 {
		t.Fatalf("member2 should have 1 instance, got %d", len(instances))
	}
}

func TestAssignWorkout_AllFailRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	trainer := seedUser(t, repo, "trainer1", models.RoleTrainer)
	m1 := seedUser(t, repo, "member1", models.RoleMember)
	templateID := seedTemplate(t, repo, trainer)

	if _, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1}); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	// every trainee fails: duplicate, wrong role, missing
	result, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1, trainer, 9999})
	if err != nil {
		t.Fatalf("AssignWorkout error: %v", err)
	}
	if result.Assigned != 0 {
		t.Fatalf("expected 0 assigned, got %d", result.Assigned)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 per-trainee errors, got %v", result.Errors)
	}

	instances, _ := repo.ListAssignedTo(ctx, m1)
	if len(instances) != 1 {
		t.Fatalf("rolled-back batch must not add instances, got %d", len(instances))
	}
}

func TestAssignWorkout_MissingTemplate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	trainer := seedUser(t, repo, "trainer1", models.RoleTrainer)
	m1 := seedUser(t, repo, "member1", models.RoleMember)

	if _, err := repo.AssignWorkout(ctx, 9999, trainer, []int64{m1}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// a soft-deleted template cannot be assigned either
	templateID := seedTemplate(t, repo, trainer)
	if err := repo.DeleteWorkout(ctx, templateID, trainer); err != nil {
		t.Fatalf("delete template: %v", err)
	}
	if _, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted template, got %v", err)
	}
}

func TestSaveAndUnsaveWorkout(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	trainer := seedUser(t, repo, "trainer1", models.RoleTrainer)
	member := seedUser(t, repo, "member1", models.RoleMember)
	templateID := seedTemplate(t, repo, trainer)

	copyID, err := repo.SaveWorkout(ctx, templateID, member)
	if err != nil {
		t.Fatalf("SaveWorkout error: %v", err)
	}
	if copyID == templateID {
		t.Fatal("saved copy shares the template row")
	}

	got, err := repo.GetWorkout(ctx, copyID)
	if err != nil {
		t.Fatalf("GetWorkout error: %v", err)
	}
	if got.CreatorID != member {
		t.Fatalf("saved copy should be owned by the member, got creator %d", got.CreatorID)
	}
	if got.AssignedTo != nil {
		t.Fatalf("saved copy is not an assignment: %#v", got.AssignedTo)
	}
	if got.SourceID == nil || *got.SourceID != templateID {
		t.Fatalf("saved copy should record its source: %#v", got.SourceID)
	}
	if len(got.Exercises) != 2 {
		t.Fatalf("saved copy lost exercises: %#v", got.Exercises)
	}

	// saving again is a duplicate, not a second copy
	if _, err := repo.SaveWorkout(ctx, templateID, member); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on re-save, got %v", err)
	}
	saved, _ := repo.ListByCreator(ctx, member)
	if len(saved) != 1 {
		t.Fatalf("expected a single saved copy, got %d", len(saved))
	}

	if err := repo.UnsaveWorkout(ctx, templateID, member); err != nil {
		t.Fatalf("UnsaveWorkout error: %v", err)
	}
	if got, _ := repo.GetWorkout(ctx, copyID); got != nil {
		t.Fatalf("unsaved copy still present: %#v", got)
	}
	// template and its exercises survive the unsave untouched
	template, _ := repo.GetWorkout(ctx, templateID)
	if template == nil || len(template.Exercises) != 2 {
		t.Fatalf("template damaged by unsave: %#v", template)
	}

	if err := repo.UnsaveWorkout(ctx, templateID, member); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second unsave, got %v", err)
	}

	// save works again after the unsave
	if _, err := repo.SaveWorkout(ctx, templateID, member); err != nil {
		t.Fatalf("re-save after unsave: %v", err)
	}
}

func TestUpdateProgress(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	trainer := seedUser(t, repo, "trainer1", models.RoleTrainer)
	m1 := seedUser(t, repo, "member1", models.RoleMember)
	m2 := seedUser(t, repo, "member2", models.RoleMember)
	templateID := seedTemplate(t, repo, trainer)

	if _, err := repo.AssignWorkout(ctx, templateID, trainer, []int64{m1}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	instances, _ := repo.ListAssignedTo(ctx, m1)
	instanceID := instances[0].ID

	if err := repo.UpdateProgress(ctx, instanceID, m1, "Done"); !errors.Is(err, repository.ErrValidation) {
		t.Fatalf("expected ErrValidation for a status outside the closed set, got %v", err)
	}

	for _, status := range []string{models.ProgressInProgress, models.ProgressCompleted, models.ProgressAssigned} {
		if err := repo.UpdateProgress(ctx, instanceID, m1, status); err != nil {
			t.Fatalf("UpdateProgress(%q) error: %v", status, err)
		}
		got, _ := repo.GetWorkout(ctx, instanceID)
		if got.Progress != status {
			t.Fatalf("progress not persisted: want %q got %q", status, got.Progress)
		}
	}

	// someone else's instance reads as missing, not forbidden
	if err := repo.UpdateProgress(ctx, instanceID, m2, models.ProgressCompleted); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign instance, got %v", err)
	}
	if err := repo.UpdateProgress(ctx, 9999, m1, models.ProgressCompleted); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing instance, got %v", err)
	}
	// templates have no progress to update
	if err := repo.UpdateProgress(ctx, templateID, m1, models.ProgressCompleted); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for template, got %v", err)
	}
}
