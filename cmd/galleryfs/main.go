// cmd/galleryfs implements the galleryfs command line tool
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	oldcmds "github.com/galleryfs/galleryfs/commands"
	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/core"
	corecmds "github.com/galleryfs/galleryfs/core/commands"
	"github.com/galleryfs/galleryfs/repo/fsrepo"
	"github.com/galleryfs/galleryfs/tracing"

	"github.com/google/uuid"
	cmds "github.com/ipfs/go-ipfs-cmds"
	"github.com/ipfs/go-ipfs-cmds/cli"
	logging "github.com/ipfs/go-log/v2"
	mprome "github.com/ipfs/go-metrics-prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// log is the command logger.
var (
	log       = logging.Logger("cmd/galleryfs")
	tracer    trace.Tracer
	sessionID string
)

const EnvLogging = "GALLERYFS_LOGGING"

func main() {
	os.Exit(mainRet())
}

func printErr(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	return 1
}

// newSessionID names one invocation in logs and traces.
func newSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return "#UUID-ERROR#"
}

func mainRet() (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID = newSessionID()
	log.Debugw("starting", "session", sessionID, "args", os.Args[1:])

	tp, err := tracing.NewTracerProvider(ctx)
	if err != nil {
		return printErr(err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			exitCode = printErr(err)
		}
	}()
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("galleryfs-cli")

	// measured datastores report through this registry
	if err := mprome.Inject(); err != nil {
		log.Errorf("Injecting prometheus handler for metrics failed with message: %s\n", err.Error())
	}

	if len(os.Args) > 1 {
		// Handle `galleryfs --version'
		if os.Args[1] == "--version" {
			os.Args[1] = "version"
		}

		// Handle `galleryfs help` and `galleryfs help <sub-command>`
		if os.Args[1] == "help" {
			if len(os.Args) > 2 {
				os.Args = append(os.Args[:1], os.Args[2:]...)
				if os.Args[1] != "--help" {
					os.Args = append(os.Args, "--help")
				}
			} else {
				os.Args[1] = "--help"
			}
		}
	}

	// output depends on executable name passed in os.Args
	// so we need to make sure it's stable
	os.Args[0] = "galleryfs"

	err = cli.Run(ctx, corecmds.Root, os.Args, os.Stdin, os.Stdout, os.Stderr, buildEnv, makeExecutor)
	if err != nil {
		return 1
	}

	// everything went better than expected :)
	return 0
}

func checkDebug(req *cmds.Request) {
	// check if user wants to debug. option OR env var.
	debug, _ := req.Options[corecmds.DebugOption].(bool)
	if debug || os.Getenv(EnvLogging) == "debug" {
		logging.SetDebugLogging()
	}
}

func buildEnv(ctx context.Context, req *cmds.Request) (cmds.Environment, error) {
	checkDebug(req)
	repoPath, err := getRepoPath(req)
	if err != nil {
		return nil, err
	}
	log.Debugf("config path is %s", repoPath)

	// this sets up the function that will initialize the node
	// this is so that we can construct the node lazily.
	return &oldcmds.Context{
		ConfigRoot: repoPath,
		ConstructNode: func() (*core.Node, error) {
			if req == nil {
				return nil, errors.New("constructing node without a request")
			}

			r, err := fsrepo.Open(repoPath)
			if errors.Is(err, fsrepo.ErrNoRepo) {
				return nil, corecmds.ErrNotInitialized
			}
			if err != nil { // repo is owned by the node
				return nil, err
			}

			n, err := core.NewNode(ctx, &core.BuildCfg{
				Repo: r,
			})
			if err != nil {
				r.Close()
				return nil, err
			}
			return n, nil
		},
	}, nil
}

func makeExecutor(req *cmds.Request, env interface{}) (cmds.Executor, error) {
	exe := tracingWrappedExecutor{exec: cmds.NewExecutor(req.Root), session: sessionID}

	if doesNotUseRepo, ok := corecmds.GetDoesNotUseRepo(req.Command.Extra); doesNotUseRepo && ok {
		return exe, nil
	}

	cctx := env.(*oldcmds.Context)
	if !fsrepo.IsInitialized(cctx.ConfigRoot) {
		return nil, corecmds.ErrNotInitialized
	}
	return exe, nil
}

type tracingWrappedExecutor struct {
	exec    cmds.Executor
	session string
}

func (twe tracingWrappedExecutor) Execute(req *cmds.Request, re cmds.ResponseEmitter, env cmds.Environment) error {
	ctx, span := tracer.Start(req.Context, "cmds."+strings.Join(req.Path, "."), trace.WithAttributes(
		attribute.StringSlice("Arguments", req.Arguments),
		attribute.String("Session", twe.session),
	))
	defer span.End()
	req.Context = ctx

	err := twe.exec.Execute(req, re, env)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func getRepoPath(req *cmds.Request) (string, error) {
	repoOpt, found := req.Options[corecmds.RepoDirOption].(string)
	if found && repoOpt != "" {
		return repoOpt, nil
	}

	return config.PathRoot()
}
