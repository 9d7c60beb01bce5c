package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryJoinAndList(t *testing.T) {
	reg := NewRegistry()

	reg.Join("general", Member{ConnID: "c1", DisplayName: "amelie"})
	reg.Join("general", Member{ConnID: "c2", DisplayName: "bruno"})
	reg.Join("general", Member{ConnID: "c3", DisplayName: "chloe"})

	members := reg.List("general")
	require.Len(t, members, 3)

	// Join order is preserved.
	assert.Equal(t, "c1", members[0].ConnID)
	assert.Equal(t, "c2", members[1].ConnID)
	assert.Equal(t, "c3", members[2].ConnID)
	assert.Equal(t, 3, reg.Count("general"))
}

func TestRegistryListUnknownRoom(t *testing.T) {
	reg := NewRegistry()

	members := reg.List("nowhere")
	assert.NotNil(t, members)
	assert.Empty(t, members)
	assert.Zero(t, reg.Count("nowhere"))
}

func TestRegistryListIsSnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Join("general", Member{ConnID: "c1", DisplayName: "amelie"})

	snapshot := reg.List("general")
	reg.Join("general", Member{ConnID: "c2", DisplayName: "bruno"})

	assert.Len(t, snapshot, 1)
	assert.Len(t, reg.List("general"), 2)
}

func TestRegistryDuplicateDisplayNames(t *testing.T) {
	reg := NewRegistry()

	reg.Join("general", Member{ConnID: "c1", DisplayName: "amelie"})
	reg.Join("general", Member{ConnID: "c2", DisplayName: "amelie"})

	members := reg.List("general")
	require.Len(t, members, 2)
	assert.NotEqual(t, members[0].ConnID, members[1].ConnID)
}

func TestRegistryLeave(t *testing.T) {
	reg := NewRegistry()

	reg.Join("general", Member{ConnID: "c1", DisplayName: "amelie"})
	reg.Join("general", Member{ConnID: "c2", DisplayName: "bruno"})

	reg.Leave("general", "c1")

	members := reg.List("general")
	require.Len(t, members, 1)
	assert.Equal(t, "c2", members[0].ConnID)
}

func TestRegistryLeaveIsIdempotent(t *testing.T) {
	reg := NewRegistry()

	reg.Join("general", Member{ConnID: "c1", DisplayName: "amelie"})

	reg.Leave("general", "c1")
	reg.Leave("general", "c1")
	reg.Leave("general", "never-joined")
	reg.Leave("other-room", "c1")

	assert.Empty(t, reg.List("general"))
}

func TestRegistryRoomsAreIndependent(t *testing.T) {
	reg := NewRegistry()

	reg.Join("alpha", Member{ConnID: "c1", DisplayName: "amelie"})
	reg.Join("beta", Member{ConnID: "c2", DisplayName: "bruno"})

	reg.Leave("alpha", "c1")

	assert.Empty(t, reg.List("alpha"))
	require.Len(t, reg.List("beta"), 1)
	assert.Equal(t, "c2", reg.List("beta")[0].ConnID)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", n)
			reg.Join("general", Member{ConnID: connID, DisplayName: "user"})
			reg.List("general")
			if n%2 == 0 {
				reg.Leave("general", connID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, reg.Count("general"))
}
