// Package bot is the command dispatcher: it parses prefixed chat messages,
// runs the matching handler and renders its reply.
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"coal-bot/internal/announce"
	"coal-bot/internal/ledger"
	"coal-bot/internal/ratelimit"
	"coal-bot/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	Prefix     string
	Timeout    time.Duration
	Admins     []string
	PassiveXP  bool
	RateWindow time.Duration
	// Latency reports the gateway heartbeat latency for -ping.
	Latency func() time.Duration
}

type Deps struct {
	Ledger    *ledger.Ledger
	Limiter   ratelimit.Limiter
	Announcer announce.Announcer
}

type handlerFunc func(ctx context.Context, req *request) (Reply, error)

type command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Admin   bool
	run     handlerFunc
}

type request struct {
	Message
	Command string
	Args    []string
}

type Dispatcher struct {
	ledger    *ledger.Ledger
	store     store.Ledger
	limiter   ratelimit.Limiter
	announcer announce.Announcer
	opts      Options
	admins    map[string]bool
	tracer    trace.Tracer

	commands map[string]*command
	ordered  []*command

	noticeMu sync.Mutex
	noticed  map[string]time.Time
}

func New(deps Deps, opts Options) (*Dispatcher, error) {
	if deps.Ledger == nil || deps.Ledger.Store == nil || deps.Ledger.Engine == nil {
		return nil, errors.New("bot: ledger with store and engine is required")
	}
	if opts.Prefix == "" {
		opts.Prefix = "-"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.Unlimited{}
	}
	if deps.Announcer == nil {
		deps.Announcer = announce.Nop{}
	}
	d := &Dispatcher{
		ledger:    deps.Ledger,
		store:     deps.Ledger.Store,
		limiter:   deps.Limiter,
		announcer: deps.Announcer,
		opts:      opts,
		admins:    map[string]bool{},
		tracer:    otel.Tracer("coal-bot/internal/bot"),
		commands:  map[string]*command{},
		noticed:   map[string]time.Time{},
	}
	for _, id := range opts.Admins {
		if id != "" {
			d.admins[id] = true
		}
	}
	for _, c := range d.table() {
		if err := d.register(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dispatcher) register(c *command) error {
	if c.run == nil {
		return fmt.Errorf("bot: command %q has no handler", c.Name)
	}
	for _, name := range append([]string{c.Name}, c.Aliases...) {
		if _, dup := d.commands[name]; dup {
			return fmt.Errorf("bot: command name %q registered twice", name)
		}
		d.commands[name] = c
	}
	d.ordered = append(d.ordered, c)
	return nil
}

// Handle processes one message. The bool is false when nothing should be
// posted.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) (Reply, bool) {
	if msg.AuthorBot || msg.AuthorID == "" {
		return Reply{}, false
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}
	name, args, isCmd, parseErr := ParseCommand(d.opts.Prefix, msg.Content)
	if !isCmd {
		return d.observe(ctx, msg)
	}
	cmd, ok := d.commands[name]
	if !ok {
		return Reply{}, false
	}

	allowed, err := d.limiter.Allow(ctx, msg.AuthorID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", msg.AuthorID).Msg("rate limiter unavailable, allowing command")
		allowed = true
	}
	if !allowed {
		metricCommandsLimited.Add(1)
		if d.firstNotice(msg.AuthorID, msg.ReceivedAt) {
			return text("🐢 Slow down! You're sending commands too fast."), true
		}
		return Reply{}, false
	}

	req := &request{Message: msg, Command: cmd.Name, Args: args}
	reply := d.run(ctx, cmd, req, parseErr)
	return reply, !reply.Empty()
}

func (d *Dispatcher) run(ctx context.Context, cmd *command, req *request, parseErr error) (reply Reply) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()
	ctx, span := d.tracer.Start(ctx, "bot."+cmd.Name, trace.WithAttributes(
		attribute.String("bot.user_id", req.AuthorID),
		attribute.String("bot.channel_id", req.ChannelID),
	))
	defer span.End()

	metricCommandsTotal.Add(1)
	metricCommandsByName.Add(cmd.Name, 1)

	var (
		err  error
		res  = outcomeOK
		stop bool
	)
	defer func() {
		if p := recover(); p != nil {
			metricPanicsTotal.Add(1)
			err = fmt.Errorf("panic: %v", p)
			res = outcomeFailed
			reply = text(genericFailure)
			log.Error().Str("cmd", cmd.Name).Str("user_id", req.AuthorID).
				Interface("panic", p).Bytes("stack", debug.Stack()).Msg("command panicked")
		}
		d.finish(span, cmd, req, start, res, err)
	}()

	switch {
	case parseErr != nil:
		err, stop = parseErr, true
	case cmd.Admin && !d.admins[req.AuthorID]:
		err, stop = errNotAdmin, true
	}
	if stop {
		reply, res = d.errorReply(err)
		return reply
	}

	reply, err = cmd.run(ctx, req)
	if err != nil {
		reply, res = d.errorReply(err)
	}
	return reply
}

var errNotAdmin = errors.New("not_admin")

func (d *Dispatcher) errorReply(err error) (Reply, outcome) {
	if errors.Is(err, errNotAdmin) {
		return text("❌ You do not have permission to use this command."), outcomeRejected
	}
	return replyForError(d.opts.Prefix, err)
}

func (d *Dispatcher) finish(span trace.Span, cmd *command, req *request, start time.Time, res outcome, err error) {
	span.SetAttributes(attribute.String("bot.outcome", string(res)))
	var ev *zerolog.Event
	switch res {
	case outcomeFailed:
		metricCommandsFailed.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "command failed")
		ev = log.Error().Err(err)
	case outcomeRejected:
		metricCommandsRejected.Add(1)
		ev = log.Info().AnErr("reason", err)
	default:
		ev = log.Info()
	}
	ev.Str("cmd", cmd.Name).
		Str("user_id", req.AuthorID).
		Str("channel_id", req.ChannelID).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("outcome", string(res)).
		Msg("command")
}

// firstNotice reports whether userID has not been told to slow down within
// the current rate window.
func (d *Dispatcher) firstNotice(userID string, now time.Time) bool {
	d.noticeMu.Lock()
	defer d.noticeMu.Unlock()
	if last, ok := d.noticed[userID]; ok && now.Sub(last) < d.opts.RateWindow {
		return false
	}
	d.noticed[userID] = now
	d.sweepNotices(now)
	return true
}

// noticeSweepAt is the map size at which expired notices are dropped.
const noticeSweepAt = 256

func (d *Dispatcher) sweepNotices(now time.Time) {
	if len(d.noticed) < noticeSweepAt {
		return
	}
	for id, last := range d.noticed {
		if now.Sub(last) >= d.opts.RateWindow {
			delete(d.noticed, id)
		}
	}
}

// observe grants passive experience for ordinary chat.
func (d *Dispatcher) observe(ctx context.Context, msg Message) (Reply, bool) {
	if !d.opts.PassiveXP {
		return Reply{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()
	metricPassiveXPTotal.Add(1)
	xp, err := d.ledger.PassiveExperience(ctx, msg.AuthorID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", msg.AuthorID).Msg("passive xp failed")
		return Reply{}, false
	}
	if !xp.LevelUp {
		return Reply{}, false
	}
	return d.levelUp(msg.AuthorID, xp.Progress.Level), true
}

func (d *Dispatcher) levelUp(userID string, level int) Reply {
	metricLevelUpsTotal.Add(1)
	d.announcer.Announce(announce.Event{Kind: announce.KindLevelUp, Subject: userID, Level: level, At: time.Now()})
	return text(fmt.Sprintf("🎉 %s levelled up to **Level %d**!", mention(userID), level))
}
