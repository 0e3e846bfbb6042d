package corewl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scenarioWindow describes the window half of a mapped-surface commit.
type scenarioWindow struct {
	Title  string `yaml:"title"`
	Class  string `yaml:"class"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// scenarioCommit describes one surface's target state within a commit step.
// A nil Window means the surface commits with no buffer/window (unmapped).
type scenarioCommit struct {
	Surface uint32          `yaml:"surface"`
	Window  *scenarioWindow `yaml:"window,omitempty"`
}

// scenarioOutput describes a backend-reported output.
type scenarioOutput struct {
	ID        uint32 `yaml:"id"`
	Width     uint32 `yaml:"width"`
	Height    uint32 `yaml:"height"`
	Scale     int32  `yaml:"scale"`
	Transform uint8  `yaml:"transform"`
}

// scenarioStep is one line of a scenario script: exactly one of its fields
// should be set, translating directly to one CoreInput fed to Engine.Step.
type scenarioStep struct {
	ClientAdd      *uint32           `yaml:"client_add,omitempty"`
	ClientDel      *uint32           `yaml:"client_del,omitempty"`
	SurfaceCreate  *uint32           `yaml:"surface_create,omitempty"`
	SurfaceDestroy *uint32           `yaml:"surface_destroy,omitempty"`
	Client         uint32            `yaml:"client,omitempty"` // owner for surface_create/destroy/commit
	SurfaceCommit  []scenarioCommit  `yaml:"surface_commit,omitempty"`
	OutputAdded    *scenarioOutput   `yaml:"output_added,omitempty"`
	OutputRemoved  *uint32           `yaml:"output_removed,omitempty"`
	OutputFrame    *uint32           `yaml:"output_frame,omitempty"`
}

// scenarioScript is the top-level YAML structure for a scenario fixture.
type scenarioScript struct {
	Tags  []string       `yaml:"tags"`
	Steps []scenarioStep `yaml:"steps"`
}

// Scenario replays a fixed sequence of CoreInput against a fresh Engine,
// the way a recorded client/backend session would. Parsed once from YAML,
// it can be run repeatedly.
type Scenario struct {
	tags  []string
	steps []scenarioStep
}

// LoadScenario parses a YAML scenario script.
func LoadScenario(data []byte) (*Scenario, error) {
	var script scenarioScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("corewl: parse scenario: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("corewl: parse scenario: no steps")
	}
	return &Scenario{tags: script.Tags, steps: script.Steps}, nil
}

// Run builds a fresh Engine over the scenario's workspace tags and replays
// every step in order, returning the engine (for state assertions) and the
// effects each step produced, index-aligned with the script's steps.
func (sc *Scenario) Run() (*Engine, [][]CoreOutputF, error) {
	eng := NewEngine(sc.tags...)
	results := make([][]CoreOutputF, 0, len(sc.steps))
	for i, st := range sc.steps {
		in, err := st.toCoreInput()
		if err != nil {
			return eng, results, fmt.Errorf("corewl: scenario step %d: %w", i, err)
		}
		results = append(results, eng.Step(in))
	}
	return eng, results, nil
}

func (st scenarioStep) toCoreInput() (CoreInput, error) {
	switch {
	case st.ClientAdd != nil:
		return ClientAddInput{Client: ClientId(*st.ClientAdd)}, nil
	case st.ClientDel != nil:
		return ClientDelInput{Client: ClientId(*st.ClientDel)}, nil
	case st.SurfaceCreate != nil:
		return ClientRequestInput{
			Client:  ClientId(st.Client),
			Request: ReqSurfaceCreate{Surface: SurfaceId(*st.SurfaceCreate)},
		}, nil
	case st.SurfaceDestroy != nil:
		return ClientRequestInput{
			Client:  ClientId(st.Client),
			Request: ReqSurfaceDestroy{Surface: SurfaceId(*st.SurfaceDestroy)},
		}, nil
	case st.SurfaceCommit != nil:
		updates := make([]SurfaceCommitEntry, 0, len(st.SurfaceCommit))
		for _, c := range st.SurfaceCommit {
			state := SurfaceState{}
			if c.Window != nil {
				state.Buffer = &Buffer{
					Format: FormatArgb8888,
					Width:  c.Window.Width,
					Height: c.Window.Height,
				}
				state.Window = &WindowState{
					Title:    c.Window.Title,
					Class:    c.Window.Class,
					Geometry: NewRect(0, 0, c.Window.Width, c.Window.Height),
				}
			}
			updates = append(updates, SurfaceCommitEntry{Surface: SurfaceId(c.Surface), State: state})
		}
		return ClientRequestInput{Client: ClientId(st.Client), Request: ReqSurfaceCommit{Updates: updates}}, nil
	case st.OutputAdded != nil:
		o := st.OutputAdded
		return BackendEventInput{Event: EvtOutputAdded{Output: Output{
			ID: OutputId(o.ID), Width: o.Width, Height: o.Height, Scale: o.Scale,
			Transform: OutputTransform(o.Transform),
		}}}, nil
	case st.OutputRemoved != nil:
		return BackendEventInput{Event: EvtOutputRemoved{Output: OutputId(*st.OutputRemoved)}}, nil
	case st.OutputFrame != nil:
		return BackendEventInput{Event: EvtOutputFrame{Output: OutputId(*st.OutputFrame)}}, nil
	default:
		return nil, fmt.Errorf("empty scenario step")
	}
}
