package startup

import (
	. "quill/internal/logger"
	"quill/internal/cmdline"
	"quill/internal/config"
	"quill/internal/crash"
	"quill/internal/editor"
	"quill/internal/instance"
	"quill/internal/launch"

	"fmt"
	"io"
	"os"
)

const (
	ExitOK          = 0
	ExitInitFailure = 2
)

// Host is the editor as seen from startup.
type Host interface {
	instance.Handler
	crash.Notifier
	crash.EmergencySaver

	Init(quotedFileNames string, params *launch.CmdLineParams) error
	Loop() int
	Close()
}

// Env holds what Run talks to. Zero fields get the real implementation.
type Env struct {
	Config  *config.Config
	Stdout  io.Writer
	Stderr  io.Writer
	Channel instance.Channel
	Arbiter *instance.Arbiter
	NewHost func(conf *config.Config) Host
	Listen  func(name string, handler instance.Handler) (io.Closer, error)
	Chdir   func(dir string) error
}

func (env *Env) defaults() {
	if env.Config == nil { env.Config = config.GetConfig() }
	if env.Stdout == nil { env.Stdout = os.Stdout }
	if env.Stderr == nil { env.Stderr = os.Stderr }
	if env.Chdir == nil { env.Chdir = os.Chdir }
	if env.NewHost == nil {
		env.NewHost = func(conf *config.Config) Host { return editor.NewEditor(conf) }
	}
	if env.Listen == nil {
		env.Listen = func(name string, handler instance.Handler) (io.Closer, error) {
			server, err := instance.Listen(name, handler)
			if err != nil { return nil, err }
			return server, nil
		}
	}

	name := env.Config.InstanceName
	if env.Channel == nil {
		channel, err := instance.NewSocketChannel(name)
		if err != nil {
			Log.Error("instance name", fmt.Sprintf("%q:", name), err.Error())
			env.Config.InstanceName = config.DefaultInstanceName
			channel, _ = instance.NewSocketChannel(config.DefaultInstanceName)
		}
		env.Channel = channel
	}
	if env.Arbiter == nil { env.Arbiter = instance.NewArbiter(env.Config.InstanceName, env.Channel) }
}

// Run takes a raw command line from start to exit and returns the process exit code.
func Run(raw string, env Env) int {
	env.defaults()
	conf := env.Config

	params := cmdline.Tokenize(raw)
	Log.Info("command line:", fmt.Sprintf("%q", []string(params)))

	options := launch.Parse(&params)
	if options.ShowHelp {
		fmt.Fprint(env.Stdout, launch.Usage)
		return ExitOK
	}
	options.ApplyPreferences(conf)

	// resolved before leaving the working directory they are relative to
	files := launch.ResolveFileNames(params)
	quoted := launch.QuoteFileNames(files)

	if dir := conf.GetInstallPath(); dir != "" {
		if err := env.Chdir(dir); err != nil { Log.Error("chdir:", err.Error()) }
	}

	payload := instance.Payload{Params: options.Params, FileNames: quoted}
	outcome := env.Arbiter.Decide(options.IsMultiInst, payload)
	defer env.Arbiter.Release()
	Log.Info("instance outcome:", outcome.String())
	if outcome == instance.ForwardAndExit { return ExitOK }

	host := env.NewHost(conf)
	defer host.Close()

	// only the lock owner serves, a second primary would steal forwarded files
	if env.Arbiter.IsFirst() {
		server, err := env.Listen(conf.InstanceName, host)
		if err != nil {
			Log.Error("instance server:", err.Error())
		} else {
			defer server.Close()
		}
	}

	guard := crash.NewGuard(crash.RecoveryDir(conf.RecoveryDir), host, host)
	return guard.Run(func() int {
		if err := host.Init(quoted, &options.Params); err != nil {
			Log.Error("init:", err.Error())
			fmt.Fprintln(env.Stderr, "quill:", err)
			return ExitInitFailure
		}
		return host.Loop()
	})
}
