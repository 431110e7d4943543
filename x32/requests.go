package x32

import "github.com/normen/x32-osc/osc"

// KeepAlive returns the /xremote subscription refresh. The console stops
// pushing changes about ten seconds after the last one it received.
func KeepAlive() []byte {
	return osc.Encode(osc.Message{Address: "/xremote", Bare: true})
}

// FullUpdate returns the queries that make the console report the show
// state and then every fader, in a fixed order.
func FullUpdate() [][]byte {
	out := ShowRequests()
	for _, idx := range FaderIndices() {
		out = append(out, FaderRequest(idx)...)
	}
	return out
}

// ShowRequests asks for the show file, the show mode and the current cue.
func ShowRequests() [][]byte {
	return [][]byte{
		osc.Encode(osc.Message{Address: "/showdata", Bare: true}),
		nodeRequest("-prefs/show_control"),
		nodeRequest("-show/prepos/current"),
	}
}

// FaderRequest asks for the mix and config nodes of one fader. It returns
// nil for an invalid index.
func FaderRequest(idx FaderIndex) [][]byte {
	if !idx.Valid() {
		return nil
	}
	address := idx.Address()
	mix := address + "/mix"
	if idx.Kind == DCA {
		mix = address
	}
	return [][]byte{nodeRequest(mix), nodeRequest(address + "/config")}
}

func nodeRequest(path string) []byte {
	return osc.Encode(osc.NewMessage("/node", osc.String(path)))
}
