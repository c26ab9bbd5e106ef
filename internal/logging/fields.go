package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// AssetFields 提供表情 id/名称/所属集合字段，供缓存操作日志复用。
func AssetFields(id, name, collection string) logrus.Fields {
	return logrus.Fields{
		"emoji_id":   id,
		"emoji_name": name,
		"collection": collection,
	}
}
