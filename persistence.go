package compatdex

import (
	"github.com/tweaklab/compatdex/pkg/logging"
	"github.com/tweaklab/compatdex/pkg/shard"
)

// Publish projects the persisted catalog into the output documents: one
// per package with the full review tree, one per iOS version with
// reviewer detail stripped. Existing output documents are wiped first so
// stale shards never survive a pass.
func (c *Client) Publish() error {
	if err := c.store.WipeOutput(); err != nil {
		return err
	}

	list, err := c.store.TweakList()
	if err != nil {
		return err
	}

	for _, pkg := range shard.ByPackage(list) {
		if err := c.store.WritePackage(pkg); err != nil {
			return err
		}
	}

	docs, order := shard.ByIOSVersion(list)
	for _, iosVersion := range order {
		if err := c.store.WriteByIOSVersion(iosVersion, docs[iosVersion]); err != nil {
			return err
		}
	}

	logging.Info().
		Int("packages", len(list.Packages)).
		Int("ios_versions", len(order)).
		Msg("published output documents")
	return nil
}
