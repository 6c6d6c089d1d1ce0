package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/interviewmesh/core"
)

// commandUsage is the help text returned by /help and by unrecognized
// commands. Commands bypass agent routing and the response cache entirely.
const commandUsage = `Available commands:
/help            Show this help
/mode [name]     Show or switch the operating mode
/agents          List the currently active agents
/switch <agent>  Focus a single agent exclusively ("auto" restores mode routing)
/start           Begin the interview
/end             End the interview and get the final summary
/reset           Discard the session and start over`

// dispatchCommand routes a slash command. It never returns an error to the
// turn: malformed or unknown commands yield the usage text (CommandError is
// rendered, not raised) and only structural failures surface via the wrapped
// operations' own logging.
func (o *Orchestrator) dispatchCommand(ctx context.Context, st *sessionState, sessionID, userID, text string) string {
	fields := strings.Fields(text)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/help":
		return commandUsage

	case "/mode":
		return o.cmdMode(st, sessionID, args)

	case "/agents":
		return o.cmdAgents(st)

	case "/switch":
		return o.cmdSwitch(st, sessionID, args)

	case "/start":
		return o.cmdStart(ctx, st, sessionID, userID)

	case "/end":
		return o.cmdEnd(ctx, sessionID, userID)

	case "/reset":
		if err := o.resetLocked(st, sessionID); err != nil {
			o.logger.Error("reset failed session_id=%s: %v", sessionID, err)
			return "Reset failed, please try again."
		}
		return "Session reset. Use /start to begin a new interview."

	default:
		cmdErr := &core.CommandError{Command: cmd, Usage: commandUsage}
		o.logger.Warn("command rejected session_id=%s: %v", sessionID, cmdErr)
		return fmt.Sprintf("%s\n\n%s", cmdErr.Error(), cmdErr.Usage)
	}
}

func (o *Orchestrator) cmdMode(st *sessionState, sessionID string, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("Current mode: %s. Available: %s", st.mode, joinModes())
	}

	mode, err := core.ParseMode(args[0])
	if err != nil {
		return fmt.Sprintf("%v. Available: %s", err, joinModes())
	}
	from := st.mode
	st.mode = mode
	o.bus.Publish(core.NewEvent(core.EventModeChanged, "orchestrator",
		core.ModeChangedPayload{SessionID: sessionID, From: from, To: mode}))
	return fmt.Sprintf("Mode switched to %s.", mode)
}

func (o *Orchestrator) cmdAgents(st *sessionState) string {
	var b strings.Builder
	b.WriteString("Active agents:")
	for _, ag := range o.activeAgents(st) {
		if desc, ok := ag.(interface{ Description() string }); ok {
			fmt.Fprintf(&b, "\n- %s: %s", ag.Name(), desc.Description())
		} else {
			fmt.Fprintf(&b, "\n- %s", ag.Name())
		}
	}
	if st.focus != "" {
		fmt.Fprintf(&b, "\n(exclusive focus on %s)", st.focus)
	}
	return b.String()
}

func (o *Orchestrator) cmdSwitch(st *sessionState, sessionID string, args []string) string {
	if len(args) == 0 {
		return "Usage: /switch <interviewer|coach|assessor|auto>"
	}
	target := args[0]
	if target == "auto" {
		target = ""
	}
	if target != "" && o.agentByName(target) == nil {
		return fmt.Sprintf("Unknown agent %q. Usage: /switch <interviewer|coach|assessor|auto>", args[0])
	}
	from := st.focus
	st.focus = target
	o.bus.Publish(core.NewEvent(core.EventAgentSwitched, "orchestrator",
		core.AgentSwitchedPayload{SessionID: sessionID, From: from, To: target}))
	if target == "" {
		return "Agent focus cleared; routing by mode again."
	}
	return fmt.Sprintf("Focusing %s exclusively.", target)
}

func (o *Orchestrator) cmdStart(ctx context.Context, st *sessionState, sessionID, userID string) string {
	if o.interviewer.State(sessionID).Terminal() {
		return "The interview has already ended. Use /reset to start over."
	}
	sc, err := o.store.Get(sessionID)
	if err != nil {
		return "Session unavailable, please try again."
	}
	turn := &core.TurnContext{SessionID: sessionID, UserID: userID, History: sc.BoundedView(o.window)}
	resp, err := o.interviewer.ProcessInput(ctx, "Let's begin.", turn)
	if err != nil {
		o.logger.Error("start failed session_id=%s: %v", sessionID, err)
		return "Could not start the interview, please try again."
	}
	o.bus.Publish(core.NewAgentResponseEvent(o.interviewer.Name(), sessionID, resp.Text))
	return resp.Text
}

func (o *Orchestrator) cmdEnd(ctx context.Context, sessionID, userID string) string {
	sc, err := o.store.Get(sessionID)
	if err != nil {
		return "Session unavailable, please try again."
	}
	turn := &core.TurnContext{SessionID: sessionID, UserID: userID, History: sc.BoundedView(o.window)}
	// EndInterview publishes the session-end event at its terminal transition.
	resp, err := o.interviewer.EndInterview(ctx, turn)
	if err != nil {
		return "The interview has already ended. Use /reset to start over."
	}
	return resp.Text
}

func joinModes() string {
	names := make([]string, 0, len(core.Modes()))
	for _, m := range core.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
