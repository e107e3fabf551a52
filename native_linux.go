package memregion

import (
	"github.com/prometheus/procfs"
)

// Each permission marker of a maps entry sets one flag; a '-' in its place
// leaves the flag clear.
var permFlags = [...]struct {
	isSet func(*procfs.ProcMapPermissions) bool
	flag  Flags
}{
	{func(p *procfs.ProcMapPermissions) bool { return p.Read }, Read},
	{func(p *procfs.ProcMapPermissions) bool { return p.Write }, Write},
	{func(p *procfs.ProcMapPermissions) bool { return p.Execute }, Execute},
}

func flagsFromPerms(perms *procfs.ProcMapPermissions) Flags {
	flags := None
	if perms == nil {
		return flags
	}
	for _, pf := range permFlags {
		if pf.isSet(perms) {
			flags |= pf.flag
		}
	}
	return flags
}

// Querier snapshots /proc/self/maps. Lookups during the discovery pass are
// served from that snapshot.
func (n unixNative) Querier() (Querier, error) {
	fs, err := procfs.NewFS(n.config.ProcMountPoint)
	if err != nil {
		return nil, err
	}
	self, err := fs.Self()
	if err != nil {
		return nil, err
	}
	maps, err := self.ProcMaps()
	if err != nil {
		return nil, err
	}

	mappings := make([]mapping, 0, len(maps))
	for _, m := range maps {
		mappings = append(mappings, mapping{
			Start: m.StartAddr,
			End:   m.EndAddr,
			Flags: flagsFromPerms(m.Perms),
		})
	}
	return newMapTable(mappings), nil
}
