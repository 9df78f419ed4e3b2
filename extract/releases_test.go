package extract_test

import (
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInReleasePages() []*fidata.Page {
	return []*fidata.Page{
		{Number: 1, Text: "Contents\nNew in This Release ........ 5\nHardware ........ 6"},
		{Number: 2, Text: "New in This Release\n" +
			"Hardware\n" +
			"New ICX Models\n" +
			"The ICX 8200-48PF and ICX8200-24 switches are supported.\n" +
			"Software Features\n" +
			"Feature Descriptions\n" +
			"MACsec    Media access control security on uplinks.\n" +
			"Port mirroring\n" +
			"mirrors traffic to a\n" +
			"remote analyzer\n" +
			"LLDP-MED\n" +
			"CLI Commands\n" +
			"New Commands in FastIron 10.0.10\n" +
			"• macsec enable\n" +
			"• show macsec\n" +
			"Modified Commands\n" +
			"No commands have been modified in this release.\n" +
			"Deprecated Commands\n" +
			"• telnet server\n" +
			"RFCs and Standards\n" +
			"The following RFCs are newly supported: RFC 8200 and RFC 4291.\n" +
			"MIBs\n" +
			"The following MIB is new: FOUNDRY-SN-MACSEC-MIB and more text here."},
		{Number: 3, Text: "Supported platforms\nSee the matrix."},
		{Number: 4, Text: "Software Upgrade\nUpgrade steps."},
		{Number: 5, Text: "Closed Issues\nThe ICX 7650 entry."},
	}
}

func TestRelease(t *testing.T) {
	t.Parallel()

	got := extract.Release(newInReleasePages(), "10.0.10")
	require.NotNil(t, got)

	assert.Equal(t, "10.0.10", got.Version)
	assert.Equal(t, []string{"ICX8200", "ICX8200-48PF"}, got.Hardware)
	assert.Equal(t, []string{
		"LLDP-MED",
		"MACsec: Media access control security on uplinks.",
		"Port mirroring: mirrors traffic to a remote analyzer",
	}, got.SoftwareFeatures)
	assert.Equal(t, []string{"macsec enable", "show macsec"}, got.CLICommands.New)
	assert.Empty(t, got.CLICommands.Modified)
	assert.Equal(t, []string{"telnet server"}, got.CLICommands.Deprecated)
	assert.Empty(t, got.CLICommands.Reintroduced)
	assert.Equal(t, []string{"RFC 8200", "RFC 4291"}, got.RFCs)
	assert.Equal(t, []string{"FOUNDRY-SN-MACSEC-MIB"}, got.MIBs)
}

func TestRelease_SoftwareFeatureBullets(t *testing.T) {
	t.Parallel()

	pages := []*fidata.Page{{Text: "New in This Release\n" +
		"New Software Features\n" +
		"• Flexible authentication\n  on trunk ports\n" +
		"- Zero touch provisioning\n" +
		"CLI Commands\n" +
		"RFCs and Standards\nThere are no new RFCs in this release."}}

	got := extract.Release(pages, "10.0.20")
	require.NotNil(t, got)
	assert.Equal(t, []string{"Flexible authentication on trunk ports", "Zero touch provisioning"}, got.SoftwareFeatures)
	assert.Empty(t, got.RFCs)
	assert.Empty(t, got.Hardware)
}

func TestRelease_NoChapter(t *testing.T) {
	t.Parallel()

	pages := []*fidata.Page{{Text: "New in This Release is mentioned without content"}}
	assert.Nil(t, extract.Release(pages, "10.0.20"))
}
