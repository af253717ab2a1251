package commands

import cmds "github.com/ipfs/go-ipfs-cmds"

type doesNotUseRepo struct{}

func CreateCmdExtras(opts ...func(e *cmds.Extra)) *cmds.Extra {
	e := new(cmds.Extra)
	for _, o := range opts {
		o(e)
	}
	return e
}

func SetDoesNotUseRepo(val bool) func(e *cmds.Extra) {
	return func(e *cmds.Extra) {
		e.SetValue(doesNotUseRepo{}, val)
	}
}

func GetDoesNotUseRepo(e *cmds.Extra) (val bool, found bool) {
	if e == nil {
		return false, false
	}
	ival, found := e.GetValue(doesNotUseRepo{})
	if !found {
		return false, false
	}
	val, _ = ival.(bool)
	return val, true
}
