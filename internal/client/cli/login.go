package cli

import (
	"context"
)

// Login сохраняет токен. Пустой token запрашивается с терминала.
func (c *Cli) Login(ctx context.Context, token string) error {
	var err error
	if token == "" {
		_, err = c.tokens.Prompt(ctx)
	} else {
		err = c.tokens.Save(ctx, token)
	}
	if err != nil {
		return err
	}

	c.io.Println("✓ Token saved")
	return nil
}

// Logout удаляет сохраненный токен. Очередь мутаций не трогается.
func (c *Cli) Logout(ctx context.Context) error {
	if err := c.tokens.Forget(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Token removed")
	return nil
}
