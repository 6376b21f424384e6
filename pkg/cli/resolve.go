package cli

import (
	"gopkg.in/yaml.v3"
)

func (a *app) newResolveCommand() *Command {
	fs, common := a.newFlagSet("resolve")
	consumer := fs.Bool("consumer", false, "Resolve the consumer validation recipe")

	cmd := &Command{
		Name:        "resolve",
		Description: "Print the resolved settings, options, version and requirements",
		Flags:       fs,
	}
	cmd.Run = func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		s, err := a.newSession(common)
		if err != nil {
			return err
		}

		r := s.producer()
		if *consumer {
			r = s.consumer()
		}

		res, err := r.Resolve(s.ctx, s.settings, s.overrides, s.ci)
		if err != nil {
			s.metrics.ObserveResolution(r.Name, string(r.Role), "", 0, err)
			return err
		}
		s.metrics.ObserveResolution(r.Name, string(r.Role), string(res.VersionMethod), len(res.Requirements), nil)

		out, err := yaml.Marshal(res)
		if err != nil {
			return err
		}
		if _, err := a.stdout.Write(out); err != nil {
			return err
		}
		return s.finish()
	}
	return cmd
}
