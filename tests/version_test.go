package tests

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/tunichain/tunichain-contract/common"
)

func TestVersion(t *testing.T) {
	data, err := os.ReadFile("../VERSION")
	require.NoError(t, err)

	v := strings.TrimPrefix(string(data), "v")
	parts := strings.Split(strings.TrimSpace(v), ".")
	require.Len(t, parts, 3)

	var ver [3]int
	for i := range parts {
		ver[i], err = strconv.Atoi(parts[i])
		require.NoError(t, err)
	}

	require.Equal(t, common.Version, ver[0]*1_000_000+ver[1]*1_000+ver[2],
		"version from common package is different from the one in VERSION file")
}

func TestContractVersions(t *testing.T) {
	tc := newTunichain(t, false)

	for name, h := range map[string]util.Uint160{
		"registry":   tc.registry,
		"invoice":    tc.invoice,
		"payment":    tc.payment,
		"vatcontrol": tc.vatControl,
	} {
		t.Run(name, func(t *testing.T) {
			tc.CommitteeInvoker(h).Invoke(t, common.Version, "version")
		})
	}
}
