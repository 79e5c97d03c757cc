package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

const defaultEndpoint = "https://api.telegram.org"

// Notifier sends monitor alerts to a Telegram chat via the bot API. It also
// keeps the session scoreboard the win/loss notifications report.
type Notifier struct {
	mu       sync.Mutex
	endpoint string
	botToken string
	chatID   string
	language string
	client   *http.Client

	wins            int
	losses          int
	ties            int
	consecutiveWins int
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. language is "en" or
// "pt" and selects the message catalog.
func NewNotifier(botToken, chatID, language string) *Notifier {
	if language != "pt" {
		language = "en"
	}
	return &Notifier{
		endpoint: defaultEndpoint,
		botToken: botToken,
		chatID:   chatID,
		language: language,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SetCredentials swaps the delivery credentials at runtime (control page
// start form).
func (n *Notifier) SetCredentials(botToken, chatID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if botToken != "" {
		n.botToken = botToken
	}
	if chatID != "" {
		n.chatID = chatID
	}
}

// EntryAlert announces a favorable entry. The color follows the leading
// side: red when the player is ahead, blue for the banker.
func (n *Notifier) EntryAlert(ctx context.Context, playerPercent, _ float64) error {
	colorEmoji := "🔵"
	if playerPercent > 50 {
		colorEmoji = "🔴"
	}

	var msg string
	if n.language == "pt" {
		msg = "ENTRADA CONFIRMADA\n" +
			fmt.Sprintf("🎲 ENTRAR NA COR (%s)\n", colorEmoji) +
			"🎯 PROTEGER NO EMPATE (🟢)\n" +
			"💰💰🤖 Entrar No Jogo"
	} else {
		msg = "CONFIRMED ENTRY\n" +
			fmt.Sprintf("🎲 ENTER THE COLOR (%s)\n", colorEmoji) +
			"🎯 PROTECT ON TIE (🟢)\n" +
			"💰💰🤖 Enter The Game"
	}
	return n.send(ctx, msg)
}

// StatusUpdate reports the current reading, or a diagnostics message when
// the cycle produced nothing.
func (n *Notifier) StatusUpdate(ctx context.Context, reading *domain.Reading) error {
	if reading == nil {
		return n.send(ctx, n.noStatsMessage())
	}

	var condition string
	if n.language == "pt" {
		if reading.PlayerPercent > 50 {
			condition = "✅ Condição de alerta ativada!"
		} else {
			condition = "⏳ Aguardando condição favorável..."
		}
		return n.send(ctx, fmt.Sprintf(
			"📊 Status Atual\n\n👤 Jogador: %.0f%%\n🏦 Banca: %.0f%%\n🤝 Empate: %.0f%%\n\n%s",
			reading.PlayerPercent, reading.BankerPercent, reading.TiePercent, condition))
	}

	if reading.PlayerPercent > 50 {
		condition = "✅ Alert condition met!"
	} else {
		condition = "⏳ Waiting for favorable condition..."
	}
	return n.send(ctx, fmt.Sprintf(
		"📊 Current Status\n\n👤 Player: %.0f%%\n🏦 Banker: %.0f%%\n🤝 Tie: %.0f%%\n\n%s",
		reading.PlayerPercent, reading.BankerPercent, reading.TiePercent, condition))
}

// Plain sends an arbitrary text message.
func (n *Notifier) Plain(ctx context.Context, text string) error {
	return n.send(ctx, text)
}

// Startup announces that monitoring began.
func (n *Notifier) Startup(ctx context.Context) error {
	if n.language == "pt" {
		return n.send(ctx, "🤖 Bot Bac Bo iniciado!\n\n📊 Monitorando o jogo...")
	}
	return n.send(ctx, "🤖 Bac Bo Bot Started!\n\n📊 Monitoring game...")
}

// Shutdown announces that monitoring stopped.
func (n *Notifier) Shutdown(ctx context.Context) error {
	if n.language == "pt" {
		return n.send(ctx, "🛑 Bot Bac Bo finalizado!\n\nO bot foi encerrado.")
	}
	return n.send(ctx, "🛑 Bac Bo Bot Stopped!\n\nThe bot has been shut down.")
}

// RecordResult tallies a round outcome and sends the result line followed
// by the updated scoreboard.
func (n *Notifier) RecordResult(ctx context.Context, win bool, winningColor string) error {
	n.mu.Lock()
	var msg string
	if win {
		n.wins++
		n.consecutiveWins++
		colorEmoji := "🔴"
		if strings.EqualFold(winningColor, "green") {
			colorEmoji = "🟢"
		}
		msg = fmt.Sprintf("✓✓✓ GREEN (%s)", colorEmoji)
	} else {
		n.losses++
		n.consecutiveWins = 0
		msg = "❌❌❌ LOSS (🔴)"
	}
	scoreboard := n.scoreboardLocked()
	n.mu.Unlock()

	if err := n.send(ctx, msg); err != nil {
		return err
	}
	return n.send(ctx, scoreboard)
}

func (n *Notifier) scoreboardLocked() string {
	total := n.wins + n.losses
	assertiveness := 100.0
	if total > 0 {
		assertiveness = float64(n.wins) / float64(total) * 100
	}
	if n.language == "pt" {
		return fmt.Sprintf(
			"PLACAR\n✓ :%d\n🟢 :%d\n🔴 :%d\n📊 GANHOS SEGUIDOS: %d\n🎯 TAXA DE ASSERTIVIDADE: %.2f%%",
			n.wins, n.losses, n.ties, n.consecutiveWins, assertiveness)
	}
	return fmt.Sprintf(
		"SCOREBOARD\n✓ :%d\n🟢 :%d\n🔴 :%d\n📊 CONSECUTIVE WINS: %d\n🎯 ASSERTIVENESS RATE: %.2f%%",
		n.wins, n.losses, n.ties, n.consecutiveWins, assertiveness)
}

func (n *Notifier) noStatsMessage() string {
	if n.language == "pt" {
		return "⚠️ Não foi possível obter estatísticas do jogo.\n\n" +
			"Possíveis causas:\n" +
			"• Site pode estar bloqueando acesso automatizado\n" +
			"• Página pode não estar carregando completamente\n" +
			"• Conteúdo do jogo pode estar em iframe não detectado\n\n" +
			"O bot continua monitorando..."
	}
	return "⚠️ Could not retrieve game statistics.\n\n" +
		"Possible causes:\n" +
		"• Site may be blocking automated access\n" +
		"• Page may not be loading completely\n" +
		"• Game content may be in undetected iframe\n\n" +
		"The bot continues monitoring..."
}

func (n *Notifier) send(ctx context.Context, text string) error {
	n.mu.Lock()
	endpoint, token, chatID := n.endpoint, n.botToken, n.chatID
	n.mu.Unlock()

	if token == "" || chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	target := fmt.Sprintf("%s/bot%s/sendMessage", endpoint, token)
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}
	return nil
}
