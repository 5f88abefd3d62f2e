package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactInput(i int) domain.ContactInput {
	return domain.ContactInput{
		Name:          fmt.Sprintf("Contact %d", i),
		Relation:      "friend",
		ContactNumber: fmt.Sprintf("+6140000000%d", i),
	}
}

func TestContacts_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	list, err := env.contacts.List(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	c, err := env.contacts.Add(ctx, s.Account.ID, domain.ContactInput{
		Name: " Mum ", Relation: "parent", ContactNumber: "+61400000001", Email: "Mum@Example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Mum", c.Name)
	assert.Equal(t, "mum@example.com", c.Email)

	updated, err := env.contacts.Update(ctx, s.Account.ID, c.ID, domain.ContactInput{
		Name: "Mother", Relation: "parent", ContactNumber: "+61400000002",
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "Mother", updated.Name)

	list, err = env.contacts.List(ctx, s.Account.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "+61400000002", list[0].ContactNumber)

	_, err = env.contacts.Update(ctx, s.Account.ID, "missing", contactInput(1))
	require.ErrorIs(t, err, ErrContactNotFound)
	require.ErrorIs(t, env.contacts.Delete(ctx, s.Account.ID, "missing"), ErrContactNotFound)

	require.NoError(t, env.contacts.Delete(ctx, s.Account.ID, c.ID))
	list, err = env.contacts.List(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContacts_Validation(t *testing.T) {
	env := newTestEnv(t)
	s := env.register(t, "ada rider", "ada@example.com")

	_, err := env.contacts.Add(context.Background(), s.Account.ID, domain.ContactInput{ContactNumber: "abc"})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestContacts_CapIsFive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	for i := range domain.MaxContacts {
		_, err := env.contacts.Add(ctx, s.Account.ID, contactInput(i))
		require.NoError(t, err)
	}
	before, err := env.contacts.List(ctx, s.Account.ID)
	require.NoError(t, err)

	_, err = env.contacts.Add(ctx, s.Account.ID, contactInput(9))
	require.ErrorIs(t, err, ErrTooManyContacts)
	assert.Contains(t, apperror.SafeMessage(err), "Maximum of 5 contacts")

	after, err := env.contacts.List(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestContacts_ConcurrentAddsNeverExceedCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	const attempts = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.contacts.Add(ctx, s.Account.ID, contactInput(i)); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	list, err := env.contacts.List(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(list), domain.MaxContacts)
	assert.Equal(t, wins, len(list))
}
